package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"openlr_decoder/pkg/decoder"
	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/memmap"
	"openlr_decoder/pkg/openlr"
)

// inputFile is the JSON shape of the LRP input file, matching the
// decode API request body.
type inputFile struct {
	LRPs []openlr.LocationReferencePoint `json:"lrps"`
}

func main() {
	networkPath := flag.String("network", "network.bin", "Path to preprocessed network binary")
	input := flag.String("input", "", "Path to LRP JSON file ({\"lrps\": [...]})")
	configPath := flag.String("config", "", "Optional JSON decoder config overlay")
	format := flag.String("format", "geojson", "Output format: geojson or polyline")
	verbose := flag.Bool("v", false, "Enable debug tracing")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: decode --network <network.bin> --input <lrps.json> [--config cfg.json] [--format geojson|polyline]")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()
	log := logger.Sugar()

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}
	var in inputFile
	if err := json.Unmarshal(data, &in); err != nil {
		log.Fatalf("failed to parse input: %v", err)
	}

	edges, err := memmap.ReadSnapshot(*networkPath)
	if err != nil {
		log.Fatalf("failed to load network: %v", err)
	}
	gt := geo.Spherical{}
	m, err := memmap.NewMap(edges, gt)
	if err != nil {
		log.Fatalf("failed to build map: %v", err)
	}

	cfg := decoder.DefaultConfig()
	if *configPath != "" {
		if cfg, err = decoder.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load decoder config: %v", err)
		}
	}

	routes, err := decoder.Decode(in.LRPs, m, gt, cfg, nil, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(2)
	}

	ls := decoder.Coordinates(routes, gt)

	switch *format {
	case "polyline":
		coords := make([][]float64, len(ls))
		for i, p := range ls {
			coords[i] = []float64{p.Lat(), p.Lon()}
		}
		fmt.Println(string(polyline.EncodeCoords(coords)))
	case "geojson":
		total := 0.0
		for _, r := range routes {
			total += r.Length()
		}
		feature := geojson.NewFeature(ls)
		feature.Properties = geojson.Properties{"length_meters": total}
		out, err := json.MarshalIndent(feature, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal geojson: %v", err)
		}
		fmt.Println(string(out))
	default:
		log.Fatalf("unknown format %q", *format)
	}
}
