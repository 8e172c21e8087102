package txlist

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wombat6/stacktrack/internal/aggregate"
	"github.com/wombat6/stacktrack/internal/model"
)

// Wallet transaction categories as reported by the host wallet.
const (
	CategorySend     = "send"
	CategoryReceive  = "receive"
	CategoryGenerate = "generate"
	CategoryImmature = "immature"
	CategoryOrphan   = "orphan"
)

// DirectionOf maps a wallet category onto a transaction direction. Only
// sends leave the wallet; every other named category (receive, generate,
// immature, orphan, or the model's own "incoming") counts as incoming.
// An empty category is reported as not ok.
func DirectionOf(category string) (model.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "":
		return "", false
	case CategorySend, string(model.DirectionOutgoing):
		return model.DirectionOutgoing, true
	default:
		return model.DirectionIncoming, true
	}
}

// JSONParser reads the host wallet's txlist: a JSON array of
// {"txid", "time", "amount", "category"} objects with amounts in BTC.
type JSONParser struct{}

type jsonEntry struct {
	TxID     string              `json:"txid"`
	Time     *int64              `json:"time"`
	Amount   decimal.NullDecimal `json:"amount"`
	Category string              `json:"category"`
}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse decodes a txlist. Missing time, amount or category
// fails with an error wrapping aggregate.ErrMalformedTransaction.
func (p *JSONParser) Parse(r io.Reader) ([]model.Transaction, error) {
	var entries []jsonEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding txlist JSON: %w", err)
	}

	var txs []model.Transaction
	for i, e := range entries {
		tx, err := e.transaction(i)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (e jsonEntry) transaction(i int) (model.Transaction, error) {
	malformed := func(format string, args ...any) error {
		return &aggregate.TransactionError{Index: i, TxID: e.TxID, Description: fmt.Sprintf(format, args...)}
	}

	if e.Time == nil {
		return model.Transaction{}, malformed("missing time")
	}
	if !e.Amount.Valid {
		return model.Transaction{}, malformed("missing amount")
	}
	dir, ok := DirectionOf(e.Category)
	if !ok {
		return model.Transaction{}, malformed("missing category")
	}

	amount := e.Amount.Decimal
	// Some wallets report sends as negative amounts.
	if dir == model.DirectionOutgoing {
		amount = amount.Abs()
	}

	return model.Transaction{
		Time:      *e.Time,
		Amount:    amount,
		Direction: dir,
		TxID:      e.TxID,
	}, nil
}
