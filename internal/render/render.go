// Package render writes charts as terminal tables, CSV or JSON.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/wombat6/stacktrack/internal/interval"
	"github.com/wombat6/stacktrack/internal/stacktrack"
)

// Output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatCSV, FormatJSON}

// CSVHeader is the header line of CSV output.
var CSVHeader = []string{"bucket", "net_flow_sats", "net_flow_btc", "balance_sats", "balance_btc"}

// Write renders chart to w in the named format.
func Write(w io.Writer, format string, chart stacktrack.Chart) error {
	switch format {
	case FormatTable, "":
		return Table(w, chart)
	case FormatCSV:
		return CSV(w, chart)
	case FormatJSON:
		return JSON(w, chart)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Table renders chart as a bordered table. NoData buckets have empty cells.
func Table(w io.Writer, chart stacktrack.Chart) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(chart.Title)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Bucket", "Net flow (sats)", "Net flow (BTC)", "Balance (sats)", "Balance (BTC)"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	g := chart.Series.Window.Granularity
	for _, row := range chart.Series.Rows {
		if row.NoData {
			t.AppendRow(table.Row{Label(g, row.Start), "", "", "", ""})
			continue
		}
		t.AppendRow(table.Row{
			Label(g, row.Start),
			int64(row.NetFlow), BTC(row.NetFlow),
			int64(row.Balance), BTC(row.Balance),
		})
	}
	t.AppendFooter(table.Row{"Carried in", "", "", int64(chart.Series.Prior), BTC(chart.Series.Prior)})
	t.Render()
	return nil
}

// CSV renders chart as CSV with a CSVHeader line. NoData buckets have empty
// value fields.
func CSV(w io.Writer, chart stacktrack.Chart) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	g := chart.Series.Window.Granularity
	for _, row := range chart.Series.Rows {
		record := []string{Label(g, row.Start), "", "", "", ""}
		if !row.NoData {
			record[1] = strconv.FormatInt(int64(row.NetFlow), 10)
			record[2] = BTC(row.NetFlow)
			record[3] = strconv.FormatInt(int64(row.Balance), 10)
			record[4] = BTC(row.Balance)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonChart struct {
	Title       string    `json:"title"`
	Span        string    `json:"span"`
	Wallets     []string  `json:"wallets"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Granularity string    `json:"granularity"`
	PriorSats   int64     `json:"prior_sats"`
	Rows        []jsonRow `json:"rows"`
}

type jsonRow struct {
	Bucket      string `json:"bucket"`
	NetFlowSats *int64 `json:"net_flow_sats"`
	BalanceSats *int64 `json:"balance_sats"`
	NoData      bool   `json:"no_data,omitempty"`
}

// JSON renders chart as an indented JSON document. NoData buckets carry
// null values.
func JSON(w io.Writer, chart stacktrack.Chart) error {
	s := chart.Series
	out := jsonChart{
		Title:       chart.Title,
		Span:        chart.Span,
		Wallets:     chart.Wallets,
		Start:       s.Window.Start.Format(time.RFC3339),
		End:         s.Window.End.Format(time.RFC3339),
		Granularity: s.Window.Granularity.String(),
		PriorSats:   int64(s.Prior),
		Rows:        make([]jsonRow, len(s.Rows)),
	}
	for i, row := range s.Rows {
		out.Rows[i] = jsonRow{Bucket: row.Start.Format(time.RFC3339), NoData: row.NoData}
		if !row.NoData {
			flow, bal := int64(row.NetFlow), int64(row.Balance)
			out.Rows[i].NetFlowSats = &flow
			out.Rows[i].BalanceSats = &bal
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	return nil
}

// Label formats a bucket floor at the precision of its granularity.
func Label(g interval.Granularity, start time.Time) string {
	switch g {
	case interval.Hour:
		return start.Format("2006-01-02 15:00")
	case interval.Day:
		return start.Format("2006-01-02")
	default:
		return start.Format("2006-01")
	}
}

var satsPerBTC = decimal.NewFromInt(btcutil.SatoshiPerBitcoin)

// BTC formats a satoshi amount as BTC with eight decimals.
func BTC(a btcutil.Amount) string {
	return decimal.NewFromInt(int64(a)).Div(satsPerBTC).StringFixed(8)
}
