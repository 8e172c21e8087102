// Package aggregate bins a wallet's transactions into a dense satoshi series.
package aggregate

import (
	"errors"
	"sort"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"

	"github.com/wombat6/stacktrack/internal/model"
	"github.com/wombat6/stacktrack/internal/window"
)

// Row is one bucket of a Series.
type Row struct {
	Start   time.Time
	NetFlow btcutil.Amount
	Balance btcutil.Amount

	// NoData is set for buckets that begin after the chart's "now". Their
	// values are still computed but should be shown as absent, not zero.
	NoData bool
}

// Series is the aggregation result for one window.
type Series struct {
	Window window.Window
	// Prior is the signed sum of all transactions dated before the first
	// bucket; it seeds the running balance.
	Prior btcutil.Amount
	Rows  []Row
}

// Balance returns the cumulative balance at the end of the window.
func (s Series) Balance() btcutil.Amount {
	if len(s.Rows) == 0 {
		return s.Prior
	}
	return s.Rows[len(s.Rows)-1].Balance
}

// Options tunes Aggregate.
type Options struct {
	// Now, when set, flags rows whose floor is strictly after it as NoData.
	Now time.Time
}

var satsPerBTC = decimal.NewFromInt(btcutil.SatoshiPerBitcoin)

// Sats converts a BTC amount to satoshis, rounding half away from zero.
func Sats(btc decimal.Decimal) btcutil.Amount {
	return btcutil.Amount(btc.Mul(satsPerBTC).Round(0).IntPart())
}

// Signed returns the transaction's satoshi contribution: negative for
// outgoing, positive for incoming.
func Signed(tx model.Transaction) btcutil.Amount {
	sats := Sats(tx.Amount)
	if tx.Direction == model.DirectionOutgoing {
		return -sats
	}
	return sats
}

// Aggregate allocates txs into the buckets of w. Transactions before the first
// bucket roll into Series.Prior; transactions at or after w.End are ignored.
// Each transaction is rounded to satoshis on its own before summing.
//
// Any malformed transaction aborts the whole aggregation with an error
// wrapping ErrMalformedTransaction.
func Aggregate(txs []model.Transaction, w window.Window, opts Options) (Series, error) {
	if verrs := Validate(txs); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return Series{}, errors.Join(errs...)
	}

	floors := w.Floors()
	series := Series{Window: w, Rows: make([]Row, len(floors))}
	for i, f := range floors {
		series.Rows[i].Start = f
	}

	loc := w.Start.Location()
	for _, tx := range txs {
		t := tx.At(loc)
		switch {
		case t.Before(w.Start):
			series.Prior += Signed(tx)
		case !t.Before(w.End):
			continue
		default:
			// Last floor not after t. Floors are ascending and the first
			// one is w.Start, so idx >= 0.
			idx := sort.Search(len(floors), func(i int) bool {
				return floors[i].After(t)
			}) - 1
			series.Rows[idx].NetFlow += Signed(tx)
		}
	}

	balance := series.Prior
	for i := range series.Rows {
		row := &series.Rows[i]
		balance += row.NetFlow
		row.Balance = balance
		if !opts.Now.IsZero() && row.Start.After(opts.Now) {
			row.NoData = true
		}
	}

	return series, nil
}
