// Package interval implements the bucket granularities used by balance charts.
//
// All arithmetic is on wall-clock fields in the location carried by the
// time.Time values passed in. Nothing is converted to UTC, so a bucket is
// whatever hour, day or month the wall clock shows in that location.
package interval

import (
	"fmt"
	"time"
)

// Granularity is the width of one chart bucket.
type Granularity int

const (
	Hour Granularity = iota + 1
	Day
	Month
)

func (g Granularity) String() string {
	switch g {
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Month:
		return "month"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// Floor snaps t down to the start of its bucket.
// 2022-09-12 14:08:01 becomes 2022-09-12 14:00 (Hour), 2022-09-12 (Day)
// or 2022-09-01 (Month).
func (g Granularity) Floor(t time.Time) time.Time {
	loc := t.Location()
	switch g {
	case Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		panic(fmt.Sprintf("interval: illegal granularity %d", int(g)))
	}
}

// Next returns the floor of the bucket following the one containing t.
// It always advances, even when t is already on a floor.
func (g Granularity) Next(t time.Time) time.Time {
	f := g.Floor(t)
	switch g {
	case Hour:
		return time.Date(f.Year(), f.Month(), f.Day(), f.Hour()+1, 0, 0, 0, f.Location())
	case Day:
		return time.Date(f.Year(), f.Month(), f.Day()+1, 0, 0, 0, 0, f.Location())
	default:
		// time.Date normalizes month 13 to January of the next year.
		return time.Date(f.Year(), f.Month()+1, 1, 0, 0, 0, 0, f.Location())
	}
}

// Floors lists the bucket floors from start (inclusive) up to end
// (exclusive). The first element is start itself; every following element is
// Next of its predecessor.
func (g Granularity) Floors(start, end time.Time) []time.Time {
	var floors []time.Time
	for cur := start; cur.Before(end); cur = g.Next(cur) {
		floors = append(floors, cur)
	}
	return floors
}
