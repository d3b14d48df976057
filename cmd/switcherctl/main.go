// Command switcherctl is a small operator tool built on top of the
// switchergo packages: it discovers devices on the local network,
// queries a single device's state, or sends it one control command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "discover":
		err = runDiscover(ctx, os.Args[2:])
	case "state":
		err = runState(ctx, os.Args[2:])
	case "control":
		err = runControl(ctx, os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "switcherctl: unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "switcherctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: switcherctl <command> [flags]

commands:
  discover   listen for broadcasting devices and serve a status page
  state      query a single device's current state
  control    send one control command to a single device

Run "switcherctl <command> -h" for flags specific to that command.
`)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}
