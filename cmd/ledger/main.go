package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init":
		if err := initLedger(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "supply":
		if err := supply(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "balance":
		if err := balance(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "transfer":
		if err := transfer(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		if err := events(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "root":
		if err := root(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "prove":
		if err := prove(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("ledger version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ledger - fungible-token ledger instances over a sqlite journal

Usage:
  ledger <command> [options]

Commands:
  init       Construct a new ledger instance
  supply     Print the fixed total supply
  balance    Print an account balance
  transfer   Move tokens between accounts
  events     Show or export the transfer record stream
  root       Print the MiMC commitment of the current state
  prove      Prove one applied transfer step is well-formed
  serve      Expose an instance over HTTP
  help       Show this help message
  version    Show version information

Examples:
  # Construct an instance with supply 777 owned by 0x01
  ledger init --db ledger.db --owner 0x01 --supply 777

  # Query and move balances
  ledger balance --db ledger.db --instance <id> 0x01
  ledger transfer --db ledger.db --instance <id> --caller 0x01 --to 0x02 --value 10

  # Export the record stream for observers
  ledger events --db ledger.db --instance <id> --format jsonl --output records.jsonl`)
}
