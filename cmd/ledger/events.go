package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/translog"
)

func events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	instance := fs.String("instance", "", "Instance handle (required)")
	format := fs.String("format", "text", "Output format: text, jsonl, csv")
	output := fs.String("output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger events [options]

Show or export the instance's transfer record stream, mint included.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Human-readable timeline
  ledger events --db ledger.db --instance <id>

  # Export for observers
  ledger events --db ledger.db --instance <id> --format jsonl --output records.jsonl
  ledger events --db ledger.db --instance <id> --format csv --output records.csv
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, j, err := openJournal(*db, *instance)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := j.Records(context.Background())
	if err != nil {
		return err
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "text":
		if len(records) == 0 {
			fmt.Fprintln(out, "No records")
			return nil
		}
		for i, r := range records {
			fmt.Fprintf(out, "%4d  %s\n", i, r)
		}
		s := translog.Summarize(records)
		fmt.Fprintf(out, "\n%d records (%d mint), %d accounts, volume %s\n",
			s.NumRecords, s.NumMints, s.NumAccounts, s.Volume.Dec())
	case "jsonl":
		return translog.WriteJSONL(out, records)
	case "csv":
		return translog.WriteCSV(out, records)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	return nil
}
