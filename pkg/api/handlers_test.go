package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"openlr_decoder/pkg/decoder"
	"openlr_decoder/pkg/geo"
	"openlr_decoder/pkg/memmap"
	"openlr_decoder/pkg/openlr"
)

const degPerMeter = 1 / 111319.49079327358

// mockDecoder implements LineDecoder for testing.
type mockDecoder struct {
	routes []decoder.Route
	err    error
}

func (m *mockDecoder) DecodeLine(lrps []openlr.LocationReferencePoint) ([]decoder.Route, error) {
	return m.routes, m.err
}

// testRoutes builds one same-line route spanning 0.2..0.8 of a 1000 m line.
func testRoutes(t *testing.T) []decoder.Route {
	t.Helper()
	m, err := memmap.NewMap([]memmap.Edge{
		{ID: 7, StartNodeID: 1, EndNodeID: 2, FRC: openlr.FRC2, FOW: openlr.FOWSingleCarriageway,
			Geometry: orb.LineString{{0, 0}, {1000 * degPerMeter, 0}}},
	}, geo.Spherical{})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	line, err := m.GetLine(7)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	return []decoder.Route{
		{
			Start: decoder.Candidate{PointOnLine: decoder.PointOnLine{Line: line, RelativeOffset: 0.2}, Score: 0.9},
			End:   decoder.Candidate{PointOnLine: decoder.PointOnLine{Line: line, RelativeOffset: 0.8}, Score: 0.9},
		},
	}
}

func requestBody() string {
	lrp := func(lon float64) string {
		return fmt.Sprintf(`{"lon":%f,"lat":0,"bearing":90,"frc":2,"fow":3,"lfrcnp":2,"dnp":600}`, lon)
	}
	return fmt.Sprintf(`{"lrps":[%s,%s]}`, lrp(200*degPerMeter), lrp(800*degPerMeter))
}

func TestHandleDecode_Success(t *testing.T) {
	h := NewHandlers(&mockDecoder{routes: testRoutes(t)}, geo.Spherical{}, StatsResponse{NumNodes: 2, NumLines: 1})

	req := httptest.NewRequest("POST", "/api/v1/decode", strings.NewReader(requestBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleDecode(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp DecodeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(resp.Routes))
	}
	r := resp.Routes[0]
	if r.StartLine != 7 || r.EndLine != 7 {
		t.Errorf("route lines = %d -> %d, want 7 -> 7", r.StartLine, r.EndLine)
	}
	if math.Abs(resp.TotalLengthMeters-600) > 1 {
		t.Errorf("TotalLengthMeters = %f, want ~600", resp.TotalLengthMeters)
	}
	if resp.Polyline == "" {
		t.Error("polyline should not be empty")
	}
	if !strings.Contains(string(resp.Geometry), "LineString") {
		t.Errorf("geometry = %s, want a GeoJSON LineString", resp.Geometry)
	}
}

func TestHandleDecode_MissingContentType(t *testing.T) {
	h := NewHandlers(&mockDecoder{}, geo.Spherical{}, StatsResponse{})

	req := httptest.NewRequest("POST", "/api/v1/decode", strings.NewReader(requestBody()))
	w := httptest.NewRecorder()

	h.HandleDecode(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleDecode_InvalidJSON(t *testing.T) {
	h := NewHandlers(&mockDecoder{}, geo.Spherical{}, StatsResponse{})

	req := httptest.NewRequest("POST", "/api/v1/decode", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleDecode(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleDecode_TooFewLRPs(t *testing.T) {
	h := NewHandlers(&mockDecoder{}, geo.Spherical{}, StatsResponse{})

	req := httptest.NewRequest("POST", "/api/v1/decode", strings.NewReader(`{"lrps":[{"lon":1,"lat":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleDecode(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleDecode_InvalidLRP(t *testing.T) {
	h := NewHandlers(&mockDecoder{}, geo.Spherical{}, StatsResponse{})

	body := `{"lrps":[{"lon":200,"lat":0},{"lon":1,"lat":1}]}`
	req := httptest.NewRequest("POST", "/api/v1/decode", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleDecode(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "invalid_lrp" {
		t.Errorf("error = %q, want invalid_lrp", resp.Error)
	}
}

func TestHandleDecode_DecodeFailed(t *testing.T) {
	mock := &mockDecoder{err: fmt.Errorf("%w: no candidates found for point 0", decoder.ErrDecodeFailed)}
	h := NewHandlers(mock, geo.Spherical{}, StatsResponse{})

	req := httptest.NewRequest("POST", "/api/v1/decode", strings.NewReader(requestBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleDecode(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422. body: %s", w.Code, w.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "decode_failed" {
		t.Errorf("error = %q, want decode_failed", resp.Error)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockDecoder{}, geo.Spherical{}, StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(&mockDecoder{}, geo.Spherical{}, StatsResponse{NumNodes: 42, NumLines: 17})

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NumNodes != 42 || resp.NumLines != 17 {
		t.Errorf("stats = %+v", resp)
	}
}
