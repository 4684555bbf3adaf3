package main

import (
	"flag"
	"fmt"
	"os"
)

// Args are command line arguments.
type Args struct {
	OperPasswd string
	Port       int
	ServerName string
	RosterFile string

	// Verbosity is 0 by default, 1 for -v, 2 for -vv.
	Verbosity int
	Quiet     bool
}

const defaultListenPort = 6667

// getArgs parses os.Args, exiting the process on -h or on a violated
// constraint (missing -o, or -n without -s).
func getArgs() *Args {
	operPasswd := flag.String("o", "", "Operator password (required).")
	port := flag.Int("p", defaultListenPort, "Listen port in standalone mode.")
	serverName := flag.String("s", "", "This node's network identifier. Required if -n is given.")
	rosterFile := flag.String("n", "", "Roster file path, enabling network mode.")
	verbose := flag.Bool("v", false, "Verbose logging (DEBUG).")
	veryVerbose := flag.Bool("vv", false, "Very verbose logging (TRACE).")
	quiet := flag.Bool("q", false, "Suppress all logging.")
	help := flag.Bool("h", false, "Show this help text and exit.")

	flag.Parse()

	if *help {
		printUsage(nil)
		os.Exit(0)
	}

	if *operPasswd == "" {
		printUsage(fmt.Errorf("-o (operator password) is required"))
		os.Exit(1)
	}

	if *rosterFile != "" && *serverName == "" {
		printUsage(fmt.Errorf("-s is required when -n is given"))
		os.Exit(1)
	}

	verbosity := 0
	if *veryVerbose {
		verbosity = 2
	} else if *verbose {
		verbosity = 1
	}

	return &Args{
		OperPasswd: *operPasswd,
		Port:       *port,
		ServerName: *serverName,
		RosterFile: *rosterFile,
		Verbosity:  verbosity,
		Quiet:      *quiet,
	}
}

func printUsage(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [arguments]\n", os.Args[0])
	flag.PrintDefaults()
}
