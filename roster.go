package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RosterEntry is one line of the roster file: a server this node is
// permitted to link with.
type RosterEntry struct {
	Name     string
	Hostname string
	Port     int
	Passwd   string
}

// loadRoster parses the roster file's "servername,host,port,passwd" lines.
// Blank lines and #-comments are skipped. Duplicate server names are fatal.
func loadRoster(path string) (map[string]RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open roster file")
	}
	defer func() { _ = f.Close() }()

	roster := map[string]RosterEntry{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, errors.Errorf("malformed roster line: %q", line)
		}

		name := strings.TrimSpace(fields[0])
		if _, exists := roster[name]; exists {
			return nil, errors.Errorf("duplicate server name in roster: %s", name)
		}

		port, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid port in roster line: %q", line)
		}

		roster[name] = RosterEntry{
			Name:     name,
			Hostname: strings.TrimSpace(fields[1]),
			Port:     port,
			Passwd:   strings.TrimSpace(fields[3]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading roster file")
	}

	return roster, nil
}
