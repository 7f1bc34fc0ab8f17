package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/stateroot"
)

func root(args []string) error {
	fs := flag.NewFlagSet("root", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	instance := fs.String("instance", "", "Instance handle (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger root [options]

Replay the instance and print the MiMC commitment of its state. The root
depends only on balances, not on the order transfers arrived in.

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

	fmt.Println(stateroot.Commit(ledger.Snapshot()))
	return nil
}
