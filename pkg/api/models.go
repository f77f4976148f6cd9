package api

import (
	"encoding/json"

	"openlr_decoder/pkg/openlr"
)

// DecodeRequest is the JSON body for POST /api/v1/decode.
type DecodeRequest struct {
	LRPs []openlr.LocationReferencePoint `json:"lrps"`
}

// RouteJSON describes one decoded route between two adjacent LRPs.
type RouteJSON struct {
	StartLine    int64   `json:"start_line"`
	StartOffset  float64 `json:"start_offset"`
	EndLine      int64   `json:"end_line"`
	EndOffset    float64 `json:"end_offset"`
	LengthMeters float64 `json:"length_meters"`
	Lines        []int64 `json:"lines"`
}

// DecodeResponse is the JSON response for a successful decode.
type DecodeResponse struct {
	TotalLengthMeters float64         `json:"total_length_meters"`
	Routes            []RouteJSON     `json:"routes"`
	Geometry          json.RawMessage `json:"geometry"`
	Polyline          string          `json:"polyline"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes int `json:"num_nodes"`
	NumLines int `json:"num_lines"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
