package decoder

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigWeightsSumToOne(t *testing.T) {
	w := DefaultConfig().ScoreWeights
	sum := w.Geo + w.FRC + w.FOW + w.Bearing
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("score weights sum to %f, want 1", sum)
	}
}

func TestDefaultConfigFOWWeightsInRange(t *testing.T) {
	cfg := DefaultConfig()
	for i, row := range cfg.FOWWeights {
		for j, w := range row {
			if w < 0 || w > 1 {
				t.Errorf("FOWWeights[%d][%d] = %f outside [0,1]", i, j, w)
			}
		}
		if row[i] != 1 {
			t.Errorf("FOWWeights[%d][%d] = %f, want 1 on the diagonal", i, i, row[i])
		}
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"min_score": 0.5, "search_radius": 250}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.MinScore != 0.5 {
		t.Errorf("MinScore = %f, want 0.5", cfg.MinScore)
	}
	if cfg.SearchRadius != 250 {
		t.Errorf("SearchRadius = %f, want 250", cfg.SearchRadius)
	}
	// Untouched options keep their defaults.
	if cfg.CandidateThreshold != 20 {
		t.Errorf("CandidateThreshold = %f, want default 20", cfg.CandidateThreshold)
	}
	if cfg.MaxBearDeviation != 45 {
		t.Errorf("MaxBearDeviation = %f, want default 45", cfg.MaxBearDeviation)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
