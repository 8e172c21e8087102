package txlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wombat6/stacktrack/internal/aggregate"
	"github.com/wombat6/stacktrack/internal/model"
)

// CSVHeader is the header row of a transaction list CSV.
const CSVHeader = "time,amount,category,txid"

// CSVParser parses transaction list CSV exports.
type CSVParser struct{}

const (
	csvNumFields   = 4
	csvColTime     = 0
	csvColAmount   = 1
	csvColCategory = 2
	csvColTxID     = 3
)

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a transaction list CSV. The first row is the header.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = csvNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transaction CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(i, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes txs as CSV, including the header.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, csvNumFields)
	row[csvColTime] = strconv.FormatInt(tx.Time, 10)
	row[csvColAmount] = tx.Amount.StringFixed(8)
	row[csvColCategory] = CategoryReceive
	if tx.Direction == model.DirectionOutgoing {
		row[csvColCategory] = CategorySend
	}
	row[csvColTxID] = tx.TxID
	return row
}

// UnmarshalTransaction converts the CSV row at index i to a Transaction.
// Empty time or amount cells are malformed transactions.
func UnmarshalTransaction(i int, record []string) (model.Transaction, error) {
	if len(record) != csvNumFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", csvNumFields, len(record))
	}

	txid := record[csvColTxID]
	malformed := func(desc string) error {
		return &aggregate.TransactionError{Index: i, TxID: txid, Description: desc}
	}

	if strings.TrimSpace(record[csvColTime]) == "" {
		return model.Transaction{}, malformed("missing time")
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(record[csvColTime]), 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing time %q: %w", record[csvColTime], err)
	}

	if strings.TrimSpace(record[csvColAmount]) == "" {
		return model.Transaction{}, malformed("missing amount")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(record[csvColAmount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[csvColAmount], err)
	}

	dir, ok := DirectionOf(record[csvColCategory])
	if !ok {
		return model.Transaction{}, malformed("missing category")
	}
	if dir == model.DirectionOutgoing {
		amount = amount.Abs()
	}

	return model.Transaction{
		Time:      ts,
		Amount:    amount,
		Direction: dir,
		TxID:      txid,
	}, nil
}
