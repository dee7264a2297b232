package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/bridge"
	"github.com/speters/ut181a/pkg/config"
	"github.com/speters/ut181a/pkg/manager"
)

var httpServe = flag.String("s", "", "serve http at [bindtohost][:]port (default from config, :8181)")
var devicePath = flag.String("d", "", "device `path` to expose, e.g. sim://bench (default from config)")
var configFile = flag.String("config", "", "configuration `file`")
var verbose = flag.Bool("v", false, "verbose logging")
var noAdvertise = flag.Bool("no-mdns", false, "do not advertise the bridge via mDNS")

// To be set via go build -ldflags "-X main.buildVersion=$(git describe --dirty) -X main.buildDate=$(date -u +%FT%TZ)"
var buildVersion = "unspecified"
var buildDate = "unknown"

// listenAddr accepts :[portnum] as well as [portnum]
func listenAddr(s string) string {
	if i, err := strconv.Atoi(s); err == nil {
		return fmt.Sprintf(":%d", i)
	}
	return s
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	config.SetupLogging(cfg.Log, *verbose)

	if *httpServe != "" {
		cfg.Bridge.Listen = *httpServe
	}
	if *devicePath != "" {
		cfg.Bridge.Device = *devicePath
	}
	if *noAdvertise {
		cfg.Bridge.Advertise = false
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	dev, err := manager.New(cfg).Open(ctx, cfg.Bridge.Device)
	if err != nil {
		return err
	}
	defer dev.Close()

	ln, err := net.Listen("tcp", listenAddr(cfg.Bridge.Listen))
	if err != nil {
		return err
	}

	srv := bridge.NewServer(dev, bridge.VersionInfo{
		Version:   buildVersion,
		BuildDate: buildDate,
		Device:    cfg.Bridge.Device,
	}, bridge.NewMetrics())
	h := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	if cfg.Bridge.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := bridge.Advertise(cfg.Bridge.Instance, port, []string{"version=" + buildVersion})
		if err != nil {
			log.Warn(err)
		}
		defer adv.Shutdown()
	}

	errc := make(chan error, 1)
	go func() { errc <- h.Serve(ln) }()
	log.Infof("Serving DMM '%s' at %s", cfg.Bridge.Device, ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
