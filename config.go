package main

import (
	"os"
	"strconv"
	"time"

	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Config holds a server's running configuration. Identity and the
// registration-critical knobs come from command line arguments; the rest
// are tuning parameters with sensible defaults, optionally overridden from
// a key=value file if one is present in the working directory. There is no
// flag for that file -- it is an operational knob, not part of the
// protocol-facing configuration.
type Config struct {
	ListenPort int

	ServerName string
	ServerInfo string
	Version    string

	CreatedDate string

	MOTD []string

	OperPasswd string

	MaxNickLength int

	// WakeupTime bounds how long the event loop may go between idle checks.
	WakeupTime time.Duration

	// PingTime is how long a connection may be quiet before we ping it.
	PingTime time.Duration

	// DeadTime is how long a connection may be quiet (including not
	// responding to a PING) before we consider it dead.
	DeadTime time.Duration

	RosterFile string
}

const (
	defaultMaxNickLength = 15
	defaultWakeupTime    = 10 * time.Second
	defaultPingTime      = 90 * time.Second
	defaultDeadTime      = 180 * time.Second

	ambientConfigFile = "catboxd.conf"
)

// newConfig builds a Config from parsed command line arguments, applying
// defaults, then overriding any of them present in an optional tuning file.
func newConfig(args *Args) (*Config, error) {
	serverName := args.ServerName
	if serverName == "" {
		// Standalone mode does not require -s. Fall back to the host's name
		// so message prefixes are never empty.
		if h, err := os.Hostname(); err == nil && h != "" {
			serverName = h
		} else {
			serverName = "localhost"
		}
	}

	cfg := &Config{
		ListenPort:    args.Port,
		ServerName:    serverName,
		ServerInfo:    "catboxd IRC server",
		Version:       "catboxd-1.0",
		CreatedDate:   time.Now().Format("Mon Jan 2 2006 15:04:05 MST"),
		OperPasswd:    args.OperPasswd,
		MaxNickLength: defaultMaxNickLength,
		WakeupTime:    defaultWakeupTime,
		PingTime:      defaultPingTime,
		DeadTime:      defaultDeadTime,
		RosterFile:    args.RosterFile,
	}

	if err := applyAmbientOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyAmbientOverrides reads ambientConfigFile, if present, and overrides
// any of the tuning fields it names. A missing file is not an error -- the
// defaults above are a complete configuration on their own.
func applyAmbientOverrides(cfg *Config) error {
	if _, err := os.Stat(ambientConfigFile); err != nil {
		return nil
	}

	values, err := config.ReadStringMap(ambientConfigFile)
	if err != nil {
		return errors.Wrap(err, "unable to read ambient config file")
	}

	if v, ok := values["server-info"]; ok && v != "" {
		cfg.ServerInfo = v
	}
	if v, ok := values["version"]; ok && v != "" {
		cfg.Version = v
	}
	if v, ok := values["max-nick-length"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid max-nick-length")
		}
		cfg.MaxNickLength = n
	}
	if v, ok := values["wakeup-time"]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid wakeup-time")
		}
		cfg.WakeupTime = d
	}
	if v, ok := values["ping-time"]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid ping-time")
		}
		cfg.PingTime = d
	}
	if v, ok := values["dead-time"]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid dead-time")
		}
		cfg.DeadTime = d
	}

	return nil
}
