// Package domain
package domain

import (
	"encoding/json"
	"errors"
)

var ErrNoSnapshot = errors.New("no snapshot available")

// Group holds the numeric fields of one metric group.
type Group map[string]float64

// CounterField names a monotonically non-decreasing counter whose
// per-second rate is derived from two consecutive snapshots.
type CounterField struct {
	Group string
	Field string
}

// CounterFields are the counters rates are derived for. Everything
// else in a snapshot is a gauge and passes through unchanged.
var CounterFields = []CounterField{
	{Group: "disk", Field: "read_sectors"},
	{Group: "disk", Field: "write_sectors"},
	{Group: "network", Field: "rx_bytes"},
	{Group: "network", Field: "tx_bytes"},
}

func (c CounterField) Key() string {
	return c.Group + "." + c.Field
}

// RateField is the name the derived rate is published under, next to
// the counter inside the same group.
func (c CounterField) RateField() string {
	return c.Field + "_rate"
}

// Snapshot is one point-in-time metrics record: a source-supplied
// timestamp in seconds plus named groups of numeric fields. The wire
// shape is flat: {"ts": 1712.5, "cpu": {...}, "disk": {...}}.
type Snapshot struct {
	TS     float64
	Groups map[string]Group

	hasTS bool
}

func NewSnapshot(ts float64, groups map[string]Group) Snapshot {
	if groups == nil {
		groups = map[string]Group{}
	}
	return Snapshot{TS: ts, Groups: groups, hasTS: true}
}

// HasTS reports whether the source supplied a timestamp. Snapshots
// without one are never accepted by the processor.
func (s Snapshot) HasTS() bool {
	return s.hasTS
}

// Field returns a single group field, with 0 for anything absent.
func (s Snapshot) Field(group, field string) float64 {
	return s.Groups[group][field]
}

// Set writes one field, creating the group if needed.
func (s *Snapshot) Set(group, field string, value float64) {
	if s.Groups == nil {
		s.Groups = map[string]Group{}
	}
	if s.Groups[group] == nil {
		s.Groups[group] = Group{}
	}
	s.Groups[group][field] = value
}

// Clone returns a deep, independent copy. Snapshots cross every
// component boundary by copy so no caller can alias internal state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{TS: s.TS, hasTS: s.hasTS}
	if s.Groups != nil {
		out.Groups = make(map[string]Group, len(s.Groups))
		for name, group := range s.Groups {
			g := make(Group, len(group))
			for field, value := range group {
				g[field] = value
			}
			out.Groups[name] = g
		}
	}
	return out
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Groups)+1)
	if s.hasTS {
		flat["ts"] = s.TS
	}
	for name, group := range s.Groups {
		flat[name] = group
	}
	return json.Marshal(flat)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	*s = Snapshot{Groups: map[string]Group{}}

	for name, raw := range flat {
		if name == "ts" {
			var ts float64
			if err := json.Unmarshal(raw, &ts); err != nil {
				continue
			}
			s.TS = ts
			s.hasTS = true
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			// Top-level non-group values (labels, hostnames) carry no
			// numeric metrics and are dropped.
			continue
		}

		group := make(Group, len(fields))
		for field, rawValue := range fields {
			var value float64
			if err := json.Unmarshal(rawValue, &value); err != nil {
				continue
			}
			group[field] = value
		}
		s.Groups[name] = group
	}

	return nil
}
