package aggregate

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wombat6/stacktrack/internal/interval"
	"github.com/wombat6/stacktrack/internal/model"
	"github.com/wombat6/stacktrack/internal/window"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(ts time.Time, amount string, dir model.Direction) model.Transaction {
	return model.Transaction{Time: ts.Unix(), Amount: dec(amount), Direction: dir}
}

func dayWindow() window.Window {
	return window.Window{Start: at(2022, 10, 1, 0), End: at(2022, 10, 3, 0), Granularity: interval.Day}
}

func TestAggregate_PriorCarryIn(t *testing.T) {
	txs := []model.Transaction{
		tx(at(2022, 9, 30, 12), "0.01", model.DirectionIncoming),
		tx(at(2022, 10, 1, 8), "0.005", model.DirectionOutgoing),
	}

	s, err := Aggregate(txs, dayWindow(), Options{})
	require.NoError(t, err)

	assert.Equal(t, btcutil.Amount(1_000_000), s.Prior)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, at(2022, 10, 1, 0), s.Rows[0].Start)
	assert.Equal(t, btcutil.Amount(-500_000), s.Rows[0].NetFlow)
	assert.Equal(t, btcutil.Amount(500_000), s.Rows[0].Balance)
	assert.Equal(t, at(2022, 10, 2, 0), s.Rows[1].Start)
	assert.Equal(t, btcutil.Amount(0), s.Rows[1].NetFlow)
	assert.Equal(t, btcutil.Amount(500_000), s.Rows[1].Balance)
	assert.Equal(t, btcutil.Amount(500_000), s.Balance())
}

func TestAggregate_Empty(t *testing.T) {
	s, err := Aggregate(nil, dayWindow(), Options{})
	require.NoError(t, err)

	assert.Zero(t, s.Prior)
	require.Len(t, s.Rows, 2)
	for _, row := range s.Rows {
		assert.Zero(t, row.NetFlow)
		assert.Zero(t, row.Balance)
		assert.False(t, row.NoData)
	}
}

func TestAggregate_Unsorted(t *testing.T) {
	txs := []model.Transaction{
		tx(at(2022, 10, 2, 23), "1", model.DirectionIncoming),
		tx(at(2022, 10, 1, 0), "0.25", model.DirectionIncoming),
		tx(at(2022, 9, 1, 0), "2", model.DirectionIncoming),
		tx(at(2022, 10, 2, 1), "0.5", model.DirectionOutgoing),
	}

	s, err := Aggregate(txs, dayWindow(), Options{})
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(200_000_000), s.Prior)
	assert.Equal(t, btcutil.Amount(25_000_000), s.Rows[0].NetFlow)
	assert.Equal(t, btcutil.Amount(50_000_000), s.Rows[1].NetFlow)
	assert.Equal(t, btcutil.Amount(275_000_000), s.Balance())
}

func TestAggregate_BoundaryTransactions(t *testing.T) {
	txs := []model.Transaction{
		// Exactly on the first floor belongs to the first bucket.
		tx(at(2022, 10, 1, 0), "0.1", model.DirectionIncoming),
		// One second before it is carry-in.
		{Time: at(2022, 10, 1, 0).Unix() - 1, Amount: dec("0.2"), Direction: model.DirectionIncoming},
		// At End is outside the window.
		tx(at(2022, 10, 3, 0), "0.4", model.DirectionIncoming),
	}

	s, err := Aggregate(txs, dayWindow(), Options{})
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(20_000_000), s.Prior)
	assert.Equal(t, btcutil.Amount(10_000_000), s.Rows[0].NetFlow)
	assert.Equal(t, btcutil.Amount(30_000_000), s.Balance())
}

func TestAggregate_UnalignedStart(t *testing.T) {
	w := window.Window{Start: at(2022, 10, 1, 12), End: at(2022, 10, 3, 0), Granularity: interval.Day}
	txs := []model.Transaction{
		tx(at(2022, 10, 1, 18), "0.1", model.DirectionIncoming),
		tx(at(2022, 10, 1, 6), "0.3", model.DirectionIncoming),
	}

	s, err := Aggregate(txs, w, Options{})
	require.NoError(t, err)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, at(2022, 10, 1, 12), s.Rows[0].Start)
	assert.Equal(t, btcutil.Amount(10_000_000), s.Rows[0].NetFlow)
	assert.Equal(t, btcutil.Amount(30_000_000), s.Prior)
}

func TestAggregate_MonthlyRollover(t *testing.T) {
	w := window.Window{Start: at(2022, 11, 1, 0), End: at(2023, 2, 1, 0), Granularity: interval.Month}
	txs := []model.Transaction{
		tx(at(2022, 12, 31, 23), "1", model.DirectionIncoming),
		tx(at(2023, 1, 15, 4), "0.3", model.DirectionOutgoing),
	}

	s, err := Aggregate(txs, w, Options{})
	require.NoError(t, err)
	require.Len(t, s.Rows, 3)
	assert.Equal(t, at(2023, 1, 1, 0), s.Rows[2].Start)
	assert.Equal(t, btcutil.Amount(100_000_000), s.Rows[1].NetFlow)
	assert.Equal(t, btcutil.Amount(-30_000_000), s.Rows[2].NetFlow)
	assert.Equal(t, btcutil.Amount(70_000_000), s.Rows[2].Balance)
}

func TestAggregate_MarksFutureRows(t *testing.T) {
	now := at(2022, 10, 1, 15)
	s, err := Aggregate(nil, dayWindow(), Options{Now: now})
	require.NoError(t, err)
	assert.False(t, s.Rows[0].NoData, "bucket containing now has data")
	assert.True(t, s.Rows[1].NoData)
}

func TestAggregate_Malformed(t *testing.T) {
	txs := []model.Transaction{
		tx(at(2022, 10, 1, 8), "0.1", model.DirectionIncoming),
		{Time: 0, Amount: dec("0.1"), Direction: model.DirectionIncoming},
		{Time: at(2022, 10, 1, 8).Unix(), Amount: dec("-0.1"), Direction: model.DirectionIncoming, TxID: "abc"},
		{Time: at(2022, 10, 1, 8).Unix(), Amount: dec("0.1"), Direction: "sideways"},
	}

	s, err := Aggregate(txs, dayWindow(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTransaction)
	assert.Empty(t, s.Rows, "no partial series")
	assert.Contains(t, err.Error(), "transaction 1: missing timestamp")
	assert.Contains(t, err.Error(), "transaction 2 (abc): amount -0.1 is negative")
	assert.Contains(t, err.Error(), `unknown direction "sideways"`)

	var terr *TransactionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 1, terr.Index)
}

func TestAggregate_NegativeTimestamp(t *testing.T) {
	txs := []model.Transaction{
		{Time: -86400, Amount: dec("0.1"), Direction: model.DirectionIncoming},
	}

	_, err := Aggregate(txs, dayWindow(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTransaction)
	assert.Contains(t, err.Error(), "transaction 0: timestamp -86400 is before 1970")
	assert.NotContains(t, err.Error(), "missing timestamp")
}

func TestSats_RoundsPerTransaction(t *testing.T) {
	assert.Equal(t, btcutil.Amount(1), Sats(dec("0.000000005")))
	assert.Equal(t, btcutil.Amount(0), Sats(dec("0.000000004")))
	assert.Equal(t, btcutil.Amount(123_456_789), Sats(dec("1.23456789")))
	assert.Equal(t, btcutil.Amount(btcutil.SatoshiPerBitcoin), Sats(dec("1")))

	// Three sub-satoshi amounts round individually, not as a sum.
	txs := []model.Transaction{
		tx(at(2022, 10, 1, 1), "0.000000004", model.DirectionIncoming),
		tx(at(2022, 10, 1, 2), "0.000000004", model.DirectionIncoming),
		tx(at(2022, 10, 1, 3), "0.000000004", model.DirectionIncoming),
	}
	s, err := Aggregate(txs, dayWindow(), Options{})
	require.NoError(t, err)
	assert.Zero(t, s.Rows[0].NetFlow)
}

func genTransactions(start, end time.Time) *rapid.Generator[[]model.Transaction] {
	span := end.Unix() - start.Unix()
	return rapid.SliceOf(rapid.Custom(func(t *rapid.T) model.Transaction {
		// Times spread over a period before, inside and after the window.
		ts := start.Unix() - span + rapid.Int64Range(0, 3*span).Draw(t, "offset")
		sats := rapid.Int64Range(0, 50*btcutil.SatoshiPerBitcoin).Draw(t, "sats")
		dir := rapid.SampledFrom([]model.Direction{model.DirectionIncoming, model.DirectionOutgoing}).Draw(t, "dir")
		return model.Transaction{Time: ts, Amount: decimal.New(sats, -8), Direction: dir}
	}))
}

func TestAggregate_Conservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w, err := window.Resolve(
			rapid.SampledFrom([]string{window.Span1D, window.Span1W, window.Span1M, window.Span1Y}).Draw(rt, "span"),
			time.Unix(rapid.Int64Range(1300000000, 2000000000).Draw(rt, "now"), 0).UTC(),
			nil,
		)
		if err != nil {
			rt.Fatalf("resolve: %v", err)
		}
		txs := genTransactions(w.Start, w.End).Draw(rt, "txs")

		s, err := Aggregate(txs, w, Options{})
		if err != nil {
			rt.Fatalf("aggregate: %v", err)
		}

		var want, flows btcutil.Amount
		for _, tx := range txs {
			if tx.At(time.UTC).Before(w.End) {
				want += Signed(tx)
			}
		}
		prev := s.Prior
		for i, row := range s.Rows {
			flows += row.NetFlow
			if row.Balance != prev+row.NetFlow {
				rt.Fatalf("row %d: balance %d != %d + %d", i, row.Balance, prev, row.NetFlow)
			}
			prev = row.Balance
		}
		if flows+s.Prior != want {
			rt.Fatalf("flows %d + prior %d != %d", flows, s.Prior, want)
		}
		if s.Balance() != want {
			rt.Fatalf("final balance %d != %d", s.Balance(), want)
		}
		if len(s.Rows) != len(w.Floors()) {
			rt.Fatalf("got %d rows for %d buckets", len(s.Rows), len(w.Floors()))
		}
	})
}
