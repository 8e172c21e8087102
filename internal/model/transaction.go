package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a transaction moved coins into or out of the wallet.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// Transaction is one entry of a wallet's transaction list.
type Transaction struct {
	Time      int64           // epoch seconds, 0 = missing, negative = malformed
	Amount    decimal.Decimal // BTC, non-negative magnitude
	Direction Direction
	TxID      string // optional, informational only
}

// At returns the transaction time in loc.
func (t Transaction) At(loc *time.Location) time.Time {
	return time.Unix(t.Time, 0).In(loc)
}

// Earliest returns the minimum timestamp across txs.
// ok is false when txs is empty.
func Earliest(txs []Transaction) (ts int64, ok bool) {
	for i, tx := range txs {
		if i == 0 || tx.Time < ts {
			ts = tx.Time
		}
	}
	return ts, len(txs) > 0
}
