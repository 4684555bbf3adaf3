package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	args := getArgs()

	log := newLogger(args)

	cfg, err := newConfig(args)
	if err != nil {
		log.WithField("err", err).Error("unable to build configuration")
		os.Exit(1)
	}

	roster := map[string]RosterEntry{}
	if args.RosterFile != "" {
		roster, err = loadRoster(args.RosterFile)
		if err != nil {
			log.WithField("err", err).Error("unable to load roster file")
			os.Exit(1)
		}
		if _, ok := roster[args.ServerName]; !ok {
			log.WithField("server-name", args.ServerName).
				Error("roster file has no entry matching -s")
			os.Exit(1)
		}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ListenPort))
	if err != nil {
		log.WithField("err", err).Error("unable to listen")
		os.Exit(1)
	}

	engine := NewEngine(cfg, roster, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		engine.shutdown()
		_ = ln.Close()
	}()

	log.WithField("port", cfg.ListenPort).Info("catboxd started")

	engine.Serve(ln)
}
