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

func initLedger(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	owner := fs.String("owner", "", "Constructing account, hex (required)")
	supply := fs.String("supply", "", "Total supply, decimal (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger init [options]

Construct a new ledger instance. The full supply is credited to the owner
and the mint record is journaled. Prints the new instance handle.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger init --db ledger.db --owner 0x01 --supply 777
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *db == "" || *owner == "" || *supply == "" {
		fs.Usage()
		return fmt.Errorf("--db, --owner and --supply are required")
	}

	ownerAddr, err := token.ParseAddress(*owner)
	if err != nil {
		return err
	}
	totalSupply, err := uint256.FromDecimal(*supply)
	if err != nil {
		return fmt.Errorf("invalid supply: %w", err)
	}

	store, err := journal.NewSQLiteStore(*db)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	// The stream is named by the instance handle, which only exists after
	// construction; buffer the records and journal them afterwards.
	var pending []token.Transfer
	sink := host.RecordSinkFunc(func(r token.Transfer) error {
		pending = append(pending, r)
		return nil
	})

	contract, err := host.Construct(host.WithCaller(ctx, ownerAddr), totalSupply, sink)
	if err != nil {
		return err
	}

	j := journal.New(store, contract.ID())
	version := -1
	for _, r := range pending {
		if version, err = j.AppendRecord(ctx, version, r); err != nil {
			return fmt.Errorf("journal mint: %w", err)
		}
	}

	fmt.Println(contract.ID())
	return nil
}
