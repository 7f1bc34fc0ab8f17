package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/host"
	"github.com/pflow-xyz/go-ledger/journal"
	"github.com/pflow-xyz/go-ledger/token"
)

func transfer(args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	instance := fs.String("instance", "", "Instance handle (required)")
	caller := fs.String("caller", "", "Source account, hex (required)")
	to := fs.String("to", "", "Destination account, hex (required)")
	value := fs.String("value", "", "Amount, decimal (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger transfer [options]

Move tokens from the caller to the destination. Fails without touching the
journal when the caller's balance cannot cover the amount.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger transfer --db ledger.db --instance <id> --caller 0x01 --to 0x02 --value 10
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *caller == "" || *to == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("--caller, --to and --value are required")
	}

	callerAddr, err := token.ParseAddress(*caller)
	if err != nil {
		return err
	}
	toAddr, err := token.ParseAddress(*to)
	if err != nil {
		return err
	}
	amount, err := uint256.FromDecimal(*value)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	store, j, err := openJournal(*db, *instance)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	ledger, version, err := loadLedger(ctx, j)
	if err != nil {
		return err
	}

	recorder := journal.NewRecorder(ctx, j, version)
	contract := host.Attach(*instance, ledger, recorder)

	// Transfer surfaces journal append failures from the recorder, so a
	// printed success always means a journaled step.
	if err := contract.Transfer(host.WithCaller(ctx, callerAddr), toAddr, amount); err != nil {
		return err
	}

	fmt.Printf("transferred %s from %s to %s\n", amount.Dec(), callerAddr, toAddr)
	return nil
}
