package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/pflow-xyz/go-ledger/host"
	"github.com/pflow-xyz/go-ledger/journal"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	db := fs.String("db", "", "SQLite journal path (required)")
	instance := fs.String("instance", "", "Instance handle (required)")
	addr := fs.String("addr", ":8080", "Listen address")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger serve [options]

Replay an instance and expose it over HTTP. Transfers are journaled as they
apply; the caller identity comes from the authenticated X-Caller header.

Endpoints:
  GET  /health
  GET  /supply
  GET  /balance/{address}
  POST /transfer            {"to": "0x..", "value": "10"}

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

	ctx := context.Background()
	ledger, version, err := loadLedger(ctx, j)
	if err != nil {
		return err
	}

	recorder := journal.NewRecorder(ctx, j, version)
	contract := host.Attach(*instance, ledger, recorder)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	service := host.NewService(contract, logger)

	logger.Info("serving ledger instance", "instance", *instance, "addr", *addr)
	return http.ListenAndServe(*addr, service.Handler())
}
