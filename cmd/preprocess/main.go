package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"openlr_decoder/pkg/memmap"
	osmparser "openlr_decoder/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "network.bin", "Output binary network file path")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	largestComponent := flag.Bool("largest-component", false, "Keep only the largest connected component")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output network.bin] [--bbox minLat,minLng,maxLat,maxLng] [--largest-component]")
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	// Parse bbox option.
	var opts osmparser.ParseOptions
	if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			log.Fatalf("invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		log.Infof("using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	start := time.Now()

	log.Info("opening OSM file")
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open input file: %v", err)
	}
	defer f.Close()

	log.Info("parsing OSM data")
	edges, err := osmparser.Parse(context.Background(), f, log, opts)
	if err != nil {
		log.Fatalf("failed to parse OSM data: %v", err)
	}

	if *largestComponent {
		log.Info("extracting largest connected component")
		before := len(edges)
		edges = memmap.LargestComponent(edges)
		log.Infof("largest component: %d of %d lines (%.1f%%)", len(edges), before, float64(len(edges))/float64(before)*100)
	}

	log.Infof("writing binary to %s", *output)
	if err := memmap.WriteSnapshot(*output, edges); err != nil {
		log.Fatalf("failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Infof("done in %s. output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}
