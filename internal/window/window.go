// Package window maps a chart span keyword onto a concrete bucketed window.
package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/wombat6/stacktrack/internal/interval"
	"github.com/wombat6/stacktrack/internal/model"
)

// ErrInvalidSpan is returned for span keywords Resolve does not know.
var ErrInvalidSpan = errors.New("invalid span")

// Span keywords.
const (
	Span1D  = "1d"
	Span1W  = "1w"
	Span1M  = "1m"
	Span1Y  = "1y"
	SpanAll = "all"
)

// Spans lists the supported span keywords, shortest first.
var Spans = []string{Span1D, Span1W, Span1M, Span1Y, SpanAll}

// minAllSpan is the shortest history the "all" span charts on its own;
// anything shorter is shown with the "1y" rule.
const minAllSpan = 365 * 24 * time.Hour

// Window is the half-open range [Start, End) split into Granularity buckets.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity interval.Granularity
}

// Floors returns the bucket floors covering the window.
func (w Window) Floors() []time.Time {
	return w.Granularity.Floors(w.Start, w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s) by %s",
		w.Start.Format(time.DateTime), w.End.Format(time.DateTime), w.Granularity)
}

// Resolve picks the window for span relative to now. txs is only consulted
// by the "all" span, which starts at the month of the earliest transaction.
// Transaction times are read in now's location.
func Resolve(span string, now time.Time, txs []model.Transaction) (Window, error) {
	switch span {
	case Span1D:
		end := interval.Hour.Next(now)
		return Window{
			Start:       time.Date(end.Year(), end.Month(), end.Day(), end.Hour()-24, 0, 0, 0, end.Location()),
			End:         end,
			Granularity: interval.Hour,
		}, nil

	case Span1W:
		return daysBack(now, 7), nil

	case Span1M:
		return daysBack(now, 31), nil

	case Span1Y:
		return yearBack(now), nil

	case SpanAll:
		end := interval.Month.Next(now)
		first := now
		if ts, ok := model.Earliest(txs); ok {
			first = time.Unix(ts, 0).In(now.Location())
		}
		start := interval.Month.Floor(first)
		if end.Sub(start) < minAllSpan {
			return yearBack(now), nil
		}
		return Window{Start: start, End: end, Granularity: interval.Month}, nil

	default:
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidSpan, span)
	}
}

func daysBack(now time.Time, days int) Window {
	end := interval.Day.Next(now)
	return Window{
		Start:       time.Date(end.Year(), end.Month(), end.Day()-days, 0, 0, 0, 0, end.Location()),
		End:         end,
		Granularity: interval.Day,
	}
}

func yearBack(now time.Time) Window {
	end := interval.Month.Next(now)
	return Window{
		Start:       time.Date(end.Year()-1, end.Month(), 1, 0, 0, 0, 0, end.Location()),
		End:         end,
		Granularity: interval.Month,
	}
}
