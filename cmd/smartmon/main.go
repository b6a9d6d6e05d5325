package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/platformbuilds/smartmon/internal/config"
	"github.com/platformbuilds/smartmon/internal/exporter"
	"github.com/platformbuilds/smartmon/internal/version"
)

func main() {
	cfgPath := flag.String("config", "", "path to config yaml (optional, defaults apply without one)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Printf("smartmon %s (%s/%s)", version.Version(), runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	log.Printf("smartmon %s starting", version.Version())

	exp, err := exporter.New(cfg, nil)
	if err != nil {
		log.Fatalf("exporter: %v", err)
	}
	log.Printf("  collectors: %v", exp.EnabledCollectors())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := exp.Serve(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
