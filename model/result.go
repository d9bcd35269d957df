package model

import (
	"math"

	"go.uber.org/multierr"
)

type Peak struct {
	Index      int     `json:"index"`
	Prominence float64 `json:"prominence"`
	// LeftBase and RightBase are the lowest samples seen by the prominence walk.
	LeftBase  int `json:"left_base"`
	RightBase int `json:"right_base"`
}

type Boundary struct {
	Height        float64 `json:"height"`
	LeftIndex     float64 `json:"left_index"`
	RightIndex    float64 `json:"right_index"`
	LeftPosition  float64 `json:"left_position"`
	RightPosition float64 `json:"right_position"`
	LeftClamped   bool    `json:"left_clamped,omitempty"`
	RightClamped  bool    `json:"right_clamped,omitempty"`
}

func (b Boundary) Width() float64 {
	return b.RightPosition - b.LeftPosition
}

func (b Boundary) Clamped() bool {
	return b.LeftClamped || b.RightClamped
}

type EntryFlag int

const (
	FlagNone       EntryFlag = 0
	FlagClamped    EntryFlag = 1
	FlagDegenerate EntryFlag = 2
)

func (f EntryFlag) String() string {
	switch f {
	case FlagNone:
		return "ok"
	case FlagClamped:
		return "clamped"
	case FlagDegenerate:
		return "degenerate"
	}
	return "unknown"
}

// Entry is one analysed peak. Factor is NaN when Flag is FlagDegenerate.
type Entry struct {
	Peak      Peak
	Position  float64
	Intensity float64
	Boundary  Boundary
	Factor    float64
	Flag      EntryFlag
	Err       error
}

func (e *Entry) Reliable() bool {
	return e.Flag == FlagNone
}

// Result holds entries ordered by peak index ascending.
type Result struct {
	Entries []Entry
}

func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

func (r *Result) IsEmpty() bool {
	return r.Len() == 0
}

func (r *Result) Factors() []float64 {
	res := make([]float64, r.Len())
	for i := range r.Entries {
		res[i] = r.Entries[i].Factor
	}
	return res
}

func (r *Result) Reliable() []Entry {
	res := []Entry{}
	for _, entry := range r.Entries {
		if entry.Reliable() && !math.IsNaN(entry.Factor) {
			res = append(res, entry)
		}
	}
	return res
}

// Err combines the per-peak errors, nil when every entry is reliable.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var err error
	for _, entry := range r.Entries {
		err = multierr.Append(err, entry.Err)
	}
	return err
}
