package decoder

import (
	"encoding/json"
	"fmt"
	"os"

	"openlr_decoder/pkg/openlr"
)

// ScoreWeights are the relative weights of the four candidate sub-scores.
// They must sum to 1.
type ScoreWeights struct {
	Geo     float64 `json:"geo"`
	FRC     float64 `json:"frc"`
	FOW     float64 `json:"fow"`
	Bearing float64 `json:"bearing"`
}

// Config holds the tuning options of the decoder. All distances are
// meters, all angles degrees.
type Config struct {
	// SearchRadius is the spatial query radius around each LRP.
	SearchRadius float64 `json:"search_radius"`
	// CandidateThreshold is the distance below which a projection snaps
	// to (or is discarded in favor of) a line endpoint at a valid junction.
	CandidateThreshold float64 `json:"candidate_threshold"`
	// MaxBearDeviation is the maximum angle between a candidate's bearing
	// and the LRP's expected bearing.
	MaxBearDeviation float64 `json:"max_bear_deviation"`
	// BearDist is the arc length over which a candidate's bearing is
	// measured.
	BearDist float64 `json:"bear_dist"`
	// ToleratedLFRC maps an LRP's lowest-FRC-to-next-point to the maximum
	// FRC a line may have and still be considered.
	ToleratedLFRC [8]openlr.FRC `json:"tolerated_lfrc"`
	// MaxDNPDeviation is the relative tolerance on the distance to the
	// next point.
	MaxDNPDeviation float64 `json:"max_dnp_deviation"`
	// ToleratedDNPDev is the absolute tolerance added on top of the
	// relative envelope.
	ToleratedDNPDev float64 `json:"tolerated_dnp_dev"`
	// MinScore is the lowest admissible candidate score.
	MinScore float64 `json:"min_score"`
	// ScoreWeights weight the candidate sub-scores.
	ScoreWeights ScoreWeights `json:"candidate_score_weights"`
	// FOWWeights[lrpFOW][lineFOW] rates form-of-way compatibility in [0,1].
	FOWWeights [8][8]float64 `json:"fow_weights"`
}

// DefaultConfig returns the standard decoding parameters.
func DefaultConfig() Config {
	return Config{
		SearchRadius:       100,
		CandidateThreshold: 20,
		MaxBearDeviation:   45,
		BearDist:           20,
		ToleratedLFRC: [8]openlr.FRC{
			openlr.FRC0, openlr.FRC1, openlr.FRC2, openlr.FRC3,
			openlr.FRC4, openlr.FRC5, openlr.FRC6, openlr.FRC7,
		},
		MaxDNPDeviation: 0.1,
		ToleratedDNPDev: 30,
		MinScore:        0.3,
		ScoreWeights:    ScoreWeights{Geo: 0.4, FRC: 0.15, FOW: 0.15, Bearing: 0.3},
		FOWWeights: [8][8]float64{
			{0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50}, // undefined
			{0.50, 1.00, 0.80, 0.00, 0.00, 0.00, 0.00, 0.00}, // motorway
			{0.50, 0.80, 1.00, 0.50, 0.50, 0.00, 0.00, 0.00}, // multiple carriageway
			{0.50, 0.00, 0.50, 1.00, 0.50, 0.50, 0.00, 0.00}, // single carriageway
			{0.50, 0.00, 0.00, 0.50, 1.00, 0.50, 0.00, 0.00}, // roundabout
			{0.50, 0.00, 0.00, 0.50, 0.50, 1.00, 0.00, 0.00}, // traffic square
			{0.50, 0.00, 0.00, 0.00, 0.00, 0.00, 1.00, 0.00}, // slip road
			{0.50, 0.00, 0.00, 0.50, 0.50, 0.50, 0.00, 1.00}, // other
		},
	}
}

// LoadConfig reads a JSON config file and overlays it on the defaults,
// so a file only needs to name the options it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
