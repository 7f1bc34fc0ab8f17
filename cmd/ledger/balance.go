package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/token"
)

func balance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	instance := fs.String("instance", "", "Instance handle (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger balance [options] <account>

Print an account balance. Accounts the ledger has never seen read as zero.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger balance --db ledger.db --instance <id> 0x01
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("account required")
	}

	account, err := token.ParseAddress(fs.Arg(0))
	if err != nil {
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

	fmt.Println(ledger.BalanceOf(account).Dec())
	return nil
}
