package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"

	"openlr_decoder/pkg/decoder"
	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/network"
	"openlr_decoder/pkg/openlr"
)

// LineDecoder decodes a line location reference onto the target map.
type LineDecoder interface {
	DecodeLine(lrps []openlr.LocationReferencePoint) ([]decoder.Route, error)
}

// Service implements LineDecoder against a map reader.
type Service struct {
	Reader network.MapReader
	Geo    geo.Tool
	Config decoder.Config
}

// DecodeLine matches the reference onto the service's map.
func (s *Service) DecodeLine(lrps []openlr.LocationReferencePoint) ([]decoder.Route, error) {
	return decoder.Decode(lrps, s.Reader, s.Geo, s.Config, nil, nil)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	dec   LineDecoder
	gt    geo.Tool
	stats StatsResponse
}

// NewHandlers creates handlers with the given decoder.
func NewHandlers(dec LineDecoder, gt geo.Tool, stats StatsResponse) *Handlers {
	return &Handlers{
		dec:   dec,
		gt:    gt,
		stats: stats,
	}
}

// HandleDecode handles POST /api/v1/decode.
func (h *Handlers) HandleDecode(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Parse request.
	var req DecodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if len(req.LRPs) < 2 {
		writeError(w, http.StatusBadRequest, "invalid_request", "at least two lrps required")
		return
	}
	for _, lrp := range req.LRPs {
		if err := validateLRP(lrp); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_lrp", err.Error())
			return
		}
	}

	routes, err := h.dec.DecodeLine(req.LRPs)
	if err != nil {
		if errors.Is(err, decoder.ErrDecodeFailed) {
			writeError(w, http.StatusUnprocessableEntity, "decode_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	resp, err := buildResponse(routes, h.gt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

// buildResponse renders the decoded routes as line references, GeoJSON
// and an encoded polyline.
func buildResponse(routes []decoder.Route, gt geo.Tool) (DecodeResponse, error) {
	resp := DecodeResponse{Routes: make([]RouteJSON, 0, len(routes))}
	for _, r := range routes {
		lines := r.Lines()
		lineIDs := make([]int64, len(lines))
		for i, l := range lines {
			lineIDs[i] = l.ID()
		}
		resp.Routes = append(resp.Routes, RouteJSON{
			StartLine:    r.Start.Line.ID(),
			StartOffset:  r.Start.RelativeOffset,
			EndLine:      r.End.Line.ID(),
			EndOffset:    r.End.RelativeOffset,
			LengthMeters: r.Length(),
			Lines:        lineIDs,
		})
		resp.TotalLengthMeters += r.Length()
	}

	ls := decoder.Coordinates(routes, gt)

	feature := geojson.NewFeature(ls)
	feature.Properties = geojson.Properties{"length_meters": resp.TotalLengthMeters}
	raw, err := feature.MarshalJSON()
	if err != nil {
		return DecodeResponse{}, err
	}
	resp.Geometry = raw

	coords := make([][]float64, len(ls))
	for i, p := range ls {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	resp.Polyline = string(polyline.EncodeCoords(coords))

	return resp, nil
}

func validateLRP(lrp openlr.LocationReferencePoint) error {
	if math.IsNaN(lrp.Lat) || math.IsNaN(lrp.Lon) || math.IsInf(lrp.Lat, 0) || math.IsInf(lrp.Lon, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if lrp.Lat < -90 || lrp.Lat > 90 || lrp.Lon < -180 || lrp.Lon > 180 {
		return errors.New("coordinates out of range")
	}
	if lrp.Bearing < 0 || lrp.Bearing >= 360 {
		return errors.New("bearing out of range")
	}
	if lrp.FRC > openlr.FRC7 || lrp.LFRCNP > openlr.FRC7 {
		return errors.New("frc out of range")
	}
	if lrp.FOW > openlr.FOWOther {
		return errors.New("fow out of range")
	}
	if lrp.DNP < 0 {
		return errors.New("dnp must be non-negative")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Detail: detail})
}
