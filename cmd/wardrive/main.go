package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/wardrive/internal/api"
	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/config"
	"github.com/banshee-data/wardrive/internal/db"
	"github.com/banshee-data/wardrive/internal/fsutil"
	"github.com/banshee-data/wardrive/internal/gps"
	"github.com/banshee-data/wardrive/internal/logstore"
	"github.com/banshee-data/wardrive/internal/monitoring"
	"github.com/banshee-data/wardrive/internal/serialmux"
	"github.com/banshee-data/wardrive/internal/status"
	"github.com/banshee-data/wardrive/internal/version"
	"github.com/banshee-data/wardrive/internal/wifi"
)

// openGPS returns the receiver transport. A port that cannot be opened
// degrades to the disabled mux so capture still runs with zero coordinates.
func openGPS(cfg *config.WardriveConfig) serialmux.SerialMuxInterface {
	switch {
	case cfg.GetGPSDisabled():
		log.Printf("GPS disabled; records will carry zero coordinates")
		return serialmux.NewDisabledSerialMux()
	case *devMode:
		log.Printf("dev mode: replaying canned NMEA sentences")
		return serialmux.NewMockSerialMux(nil, 0)
	}

	opts := serialmux.PortOptions{
		BaudRate: cfg.GetGPSBaudRate(),
		DataBits: cfg.GetGPSDataBits(),
		StopBits: cfg.GetGPSStopBits(),
		Parity:   cfg.GetGPSParity(),
	}
	m, err := serialmux.NewRealSerialMux(cfg.GetGPSPort(), opts)
	if err != nil {
		log.Printf("failed to open GPS port %s, continuing without position: %v", cfg.GetGPSPort(), err)
		return serialmux.NewDisabledSerialMux()
	}
	return m
}

func openStatus(cfg *config.WardriveConfig) (status.Display, status.LED) {
	var (
		display status.Display = status.LogDisplay{}
		led     status.LED     = status.NopLED{}
	)
	if p := cfg.GetDisplayPath(); p != "" {
		display = status.FileDisplay{FS: fsutil.OSFileSystem{}, Path: p}
	}
	if p := cfg.GetLEDPath(); p != "" {
		led = status.SysfsLED{FS: fsutil.OSFileSystem{}, Path: p}
	}
	return display, led
}

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := &config.WardriveConfig{}
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if err := applyFlagOverrides(flag.CommandLine, cfg); err != nil {
		log.Fatal(err)
	}
	monitoring.SetVerbose(cfg.GetVerbose())
	log.Printf("starting %s", version.String())

	gpsSerial := openGPS(cfg)
	defer gpsSerial.Close()

	if err := gpsSerial.Initialize(); err != nil {
		log.Printf("failed to initialize GPS receiver: %v", err)
	} else {
		log.Printf("initialized GPS receiver %s", cfg.GetGPSPort())
	}

	var archive *db.DB
	if path := cfg.GetDBPath(); path != "" {
		var err error
		archive, err = db.NewDB(path)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer archive.Close()

		session, err := archive.StartSession(version.Version)
		if err != nil {
			log.Fatalf("Failed to start archive session: %v", err)
		}
		log.Printf("archive session %s in %s", session, path)
	}

	tracker := gps.NewTracker()
	feed := gps.NewFeed(tracker)

	scanner := wifi.NewScanner(cfg.GetWifiInterface())
	scanner.Command = cfg.GetScanCommand()
	scanner.Dump = cfg.GetScanDump()

	store := logstore.New(fsutil.OSFileSystem{}, cfg.GetLogPath())
	cycle := capture.NewCycle(scanner, tracker, store, cfg.GetSeenCapacity())
	if archive != nil {
		cycle.Archive = archive
	}
	scheduler := capture.NewScheduler(cycle, cfg.GetScanErrorBackoff())
	if archive != nil {
		scheduler.Recorder = archive
	}

	display, led := openStatus(cfg)
	statusLoop := &status.Loop{
		Reports:   scheduler.Reports(),
		Reporter:  &status.DeviceReporter{Display: display, LED: led},
		LED:       led,
		Heartbeat: cfg.GetHeartbeatInterval(),
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the GPS serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gpsSerial.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor GPS serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// decode NMEA sentences into the tracker
	wg.Add(1)
	go func() {
		defer wg.Done()
		id, lines := gpsSerial.Subscribe()
		defer gpsSerial.Unsubscribe(id)
		if err := feed.Run(ctx, lines); err != nil && err != context.Canceled {
			log.Printf("NMEA feed stopped: %v", err)
		}
		log.Print("NMEA feed routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := serialmux.WatchReceiverMessages(ctx, gpsSerial); err != nil && err != context.Canceled {
			log.Printf("receiver message watcher stopped: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("scanning %s, logging to %s", cfg.GetWifiInterface(), store.Path)
		if err := scheduler.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("capture scheduler stopped: %v", err)
		}
		appended, failed := store.Stats()
		stats := scheduler.Stats()
		log.Printf("capture stopped after %d cycles: %d new networks, %d records written, %d failed",
			stats.Cycles, stats.TotalNew, appended, failed)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := statusLoop.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("status loop stopped: %v", err)
		}
	}()

	// HTTP server goroutine
	if addr := cfg.GetListen(); addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			apiServer := api.NewServer(gpsSerial, archive, tracker, scheduler)
			apiServer.SetFeed(feed)
			mux, err := apiServer.ServeMux()
			if err != nil {
				log.Printf("diagnostics server disabled: %v", err)
				return
			}

			server := &http.Server{
				Addr:    addr,
				Handler: api.LoggingMiddleware(mux),
			}

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("diagnostics server failed: %v", err)
				}
			}()

			<-ctx.Done()
			log.Println("shutting down HTTP server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
				if err := server.Close(); err != nil {
					log.Printf("HTTP server force close error: %v", err)
				}
			}

			log.Printf("HTTP server routine stopped")
		}()
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
