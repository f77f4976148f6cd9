package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"openlr_decoder/pkg/api"
	"openlr_decoder/pkg/decoder"
	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/memmap"
)

func main() {
	networkPath := flag.String("network", "network.bin", "Path to preprocessed network binary")
	configPath := flag.String("config", "", "Optional JSON decoder config overlay")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	start := time.Now()

	log.Infof("loading network from %s", *networkPath)
	edges, err := memmap.ReadSnapshot(*networkPath)
	if err != nil {
		log.Fatalf("failed to load network: %v", err)
	}

	gt := geo.Spherical{}
	m, err := memmap.NewMap(edges, gt)
	if err != nil {
		log.Fatalf("failed to build map: %v", err)
	}
	log.Infof("loaded: %d nodes, %d lines", m.NumNodes(), m.NumLines())

	dcfg := decoder.DefaultConfig()
	if *configPath != "" {
		if dcfg, err = decoder.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load decoder config: %v", err)
		}
	}

	// Reclaim memory from init-time temporaries. Without this, Go's heap
	// retains peak RSS from index construction. This returns unused
	// pages to the OS.
	runtime.GC()
	debug.FreeOSMemory()

	log.Infof("ready in %s", time.Since(start).Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	svc := &api.Service{Reader: m, Geo: gt, Config: dcfg}
	stats := api.StatsResponse{NumNodes: m.NumNodes(), NumLines: m.NumLines()}

	handlers := api.NewHandlers(svc, gt, stats)
	srv := api.NewServer(cfg, handlers, log)

	if err := api.ListenAndServe(srv, log); err != nil {
		log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
