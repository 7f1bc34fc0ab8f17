package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func supply(args []string) error {
	fs := flag.NewFlagSet("supply", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	instance := fs.String("instance", "", "Instance handle (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger supply [options]

Print the instance's fixed total supply.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, j, err := openJournal(*db, *instance)
	if err != nil {
		return err
	}
	defer store.Close()

	ledger, _, err := loadLedger(context.Background(), j)
	if err != nil {
		return err
	}

	fmt.Println(ledger.TotalSupply().Dec())
	return nil
}
