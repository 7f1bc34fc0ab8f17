package translog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pflow-xyz/go-ledger/token"
)

// csvHeader is the fixed column layout: an empty from marks the mint.
var csvHeader = []string{"from", "to", "value"}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []token.Transfer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		l := toLine(r)
		if err := cw.Write([]string{l.From, l.To, l.Value}); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to a CSV file.
func WriteCSVFile(filename string, records []token.Transfer) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, records)
}

// ParseCSVReader parses a record stream from a CSV reader. The first row
// must be the header.
func ParseCSVReader(r io.Reader) ([]token.Transfer, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range csvHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var records []token.Transfer
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		row++

		record, err := fromLine(line{
			From:  fields[cols["from"]],
			To:    fields[cols["to"]],
			Value: fields[cols["value"]],
		})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseCSV parses a record stream from a CSV file.
func ParseCSV(filename string) ([]token.Transfer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseCSVReader(f)
}
