package translog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/token"
)

// line is the wire form of one record. A mint has no "from" field; values
// are decimal strings so arbitrary 256-bit amounts survive the trip.
type line struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Value string `json:"value"`
}

// WriteJSONL writes records as JSON Lines, one record per line, oldest first.
func WriteJSONL(w io.Writer, records []token.Transfer) error {
	enc := json.NewEncoder(w)
	for i, r := range records {
		if err := enc.Encode(toLine(r)); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// WriteJSONLFile writes records to a JSONL file.
func WriteJSONLFile(filename string, records []token.Transfer) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return WriteJSONL(f, records)
}

// ParseJSONLReader parses a record stream from a JSONL reader.
func ParseJSONLReader(r io.Reader) ([]token.Transfer, error) {
	var records []token.Transfer
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if text == "" {
			continue
		}

		var l line
		if err := json.Unmarshal([]byte(text), &l); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		record, err := fromLine(l)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return records, nil
}

// ParseJSONL parses a record stream from a JSONL file.
func ParseJSONL(filename string) ([]token.Transfer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseJSONLReader(f)
}

func toLine(r token.Transfer) line {
	l := line{Value: r.Value.Dec()}
	if r.From != nil {
		l.From = r.From.String()
	}
	if r.To != nil {
		l.To = r.To.String()
	}
	return l
}

func fromLine(l line) (token.Transfer, error) {
	var record token.Transfer

	value, err := uint256.FromDecimal(l.Value)
	if err != nil {
		return record, fmt.Errorf("invalid value %q: %w", l.Value, err)
	}
	record.Value = value

	if l.From != "" {
		from, err := token.ParseAddress(l.From)
		if err != nil {
			return record, fmt.Errorf("invalid source: %w", err)
		}
		record.From = &from
	}
	if l.To != "" {
		to, err := token.ParseAddress(l.To)
		if err != nil {
			return record, fmt.Errorf("invalid destination: %w", err)
		}
		record.To = &to
	}
	return record, nil
}
