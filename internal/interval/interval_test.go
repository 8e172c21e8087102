package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func at(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

func TestFloor(t *testing.T) {
	ts := at(2022, 10, 5, 16, 38, 30)
	tests := []struct {
		g    Granularity
		want time.Time
	}{
		{Hour, at(2022, 10, 5, 16, 0, 0)},
		{Day, at(2022, 10, 5, 0, 0, 0)},
		{Month, at(2022, 10, 1, 0, 0, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.g.Floor(ts), "Floor(%s)", tt.g)
	}
}

func TestFloor_InvalidGranularity(t *testing.T) {
	assert.Panics(t, func() { Granularity(-1).Floor(at(2022, 10, 5, 16, 38, 30)) })
}

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		g    Granularity
		in   time.Time
		want time.Time
	}{
		{"hour", Hour, at(2022, 10, 5, 16, 38, 30), at(2022, 10, 5, 17, 0, 0)},
		{"hour rollover", Hour, at(2022, 10, 5, 23, 38, 30), at(2022, 10, 6, 0, 0, 0)},
		{"day", Day, at(2022, 10, 5, 16, 38, 30), at(2022, 10, 6, 0, 0, 0)},
		{"day rollover", Day, at(2022, 10, 31, 16, 38, 30), at(2022, 11, 1, 0, 0, 0)},
		{"leap day", Day, at(2024, 2, 29, 16, 38, 30), at(2024, 3, 1, 0, 0, 0)},
		{"month", Month, at(2022, 10, 5, 16, 38, 30), at(2022, 11, 1, 0, 0, 0)},
		{"month rollover", Month, at(2022, 12, 5, 16, 38, 30), at(2023, 1, 1, 0, 0, 0)},
		{"on floor advances", Day, at(2022, 10, 5, 0, 0, 0), at(2022, 10, 6, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.g.Next(tt.in))
		})
	}
}

func TestNext_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := Day.Next(time.Date(2022, 10, 5, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2022, 10, 6, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestFloors(t *testing.T) {
	floors := Day.Floors(at(2022, 10, 1, 0, 0, 0), at(2022, 10, 3, 0, 0, 0))
	require.Len(t, floors, 2)
	assert.Equal(t, at(2022, 10, 1, 0, 0, 0), floors[0])
	assert.Equal(t, at(2022, 10, 2, 0, 0, 0), floors[1])

	assert.Empty(t, Month.Floors(at(2022, 10, 1, 0, 0, 0), at(2022, 10, 1, 0, 0, 0)))
	assert.Len(t, Month.Floors(at(2022, 4, 1, 0, 0, 0), at(2023, 4, 1, 0, 0, 0)), 12)
}

func genGranularity() *rapid.Generator[Granularity] {
	return rapid.SampledFrom([]Granularity{Hour, Day, Month})
}

func genTime() *rapid.Generator[time.Time] {
	return rapid.Custom(func(t *rapid.T) time.Time {
		// 2009-01-03 .. 2100-01-01
		sec := rapid.Int64Range(1230940800, 4102444800).Draw(t, "sec")
		return time.Unix(sec, 0).UTC()
	})
}

func TestFloorIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := genGranularity().Draw(rt, "g")
		ts := genTime().Draw(rt, "t")
		f := g.Floor(ts)
		if !g.Floor(f).Equal(f) {
			rt.Fatalf("Floor(Floor(%v)) = %v, want %v", ts, g.Floor(f), f)
		}
		if f.After(ts) {
			rt.Fatalf("Floor(%v) = %v is after input", ts, f)
		}
	})
}

func TestNextAdvances(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := genGranularity().Draw(rt, "g")
		ts := genTime().Draw(rt, "t")
		n := g.Next(ts)
		if !n.After(ts) {
			rt.Fatalf("Next(%v) = %v does not advance", ts, n)
		}
		if !g.Floor(n).Equal(n) {
			rt.Fatalf("Next(%v) = %v is not a floor", ts, n)
		}
	})
}

func TestFloorsDense(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := genGranularity().Draw(rt, "g")
		start := g.Floor(genTime().Draw(rt, "start"))
		n := rapid.IntRange(0, 60).Draw(rt, "n")
		end := start
		for i := 0; i < n; i++ {
			end = g.Next(end)
		}

		floors := g.Floors(start, end)
		if len(floors) != n {
			rt.Fatalf("got %d floors, want %d", len(floors), n)
		}
		for i, f := range floors {
			if f.Before(start) || !f.Before(end) {
				rt.Fatalf("floor %v outside [%v, %v)", f, start, end)
			}
			if i > 0 && !g.Next(floors[i-1]).Equal(f) {
				rt.Fatalf("gap between %v and %v", floors[i-1], f)
			}
		}
	})
}
