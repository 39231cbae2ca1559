// Package scaler standardises feature columns against statistics fitted on
// training data only, persisting the fit so inference reuses it verbatim.
package scaler

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"NewsPulse/internal/domain/models"
)

// State holds the fitted per-column statistics. Columns preserves fit
// order so serialised state stays stable across runs.
type State struct {
	Columns []string           `json:"columns"`
	Mean    map[string]float64 `json:"mean"`
	Scale   map[string]float64 `json:"scale"`
}

// Fit computes mean and population standard deviation for each named
// column over rows. Undefined cells are excluded from the statistics. A
// zero-variance column gets scale 1 so transformed values stay finite.
func Fit(rows []models.FeatureRow, columns []string) (*State, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit requires at least one row")
	}
	st := &State{
		Columns: append([]string(nil), columns...),
		Mean:    make(map[string]float64, len(columns)),
		Scale:   make(map[string]float64, len(columns)),
	}
	for _, col := range columns {
		var sum float64
		var n int
		for i := range rows {
			v := rows[i].Feature(col)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			return nil, fmt.Errorf("column %q has no defined values", col)
		}
		mean := sum / float64(n)

		var acc float64
		for i := range rows {
			v := rows[i].Feature(col)
			if math.IsNaN(v) {
				continue
			}
			d := v - mean
			acc += d * d
		}
		scale := math.Sqrt(acc / float64(n))
		if scale == 0 {
			scale = 1
		}
		st.Mean[col] = mean
		st.Scale[col] = scale
	}
	return st, nil
}

// Apply standardises the state's columns in place on a copy of rows. It
// never recomputes statistics: the same state transforms train and test
// identically.
func Apply(rows []models.FeatureRow, st *State) ([]models.FeatureRow, error) {
	out := make([]models.FeatureRow, len(rows))
	copy(out, rows)
	for _, col := range st.Columns {
		mean, okM := st.Mean[col]
		scale, okS := st.Scale[col]
		if !okM || !okS {
			return nil, fmt.Errorf("state is missing statistics for column %q", col)
		}
		for i := range out {
			v := out[i].Feature(col)
			if math.IsNaN(v) {
				continue
			}
			out[i].SetFeature(col, (v-mean)/scale)
		}
	}
	return out, nil
}

// Save persists the state as JSON, creating parent directories as needed.
func Save(st *State, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create scaler dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scaler state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scaler state: %w", err)
	}
	return nil
}

// Load reads a previously saved state. A missing file is an explicit
// error: applying an unfitted scaler would silently corrupt features.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scaler state %s does not exist, run the scale step first: %w", path, err)
		}
		return nil, fmt.Errorf("read scaler state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode scaler state: %w", err)
	}
	if len(st.Columns) == 0 {
		return nil, fmt.Errorf("scaler state %s holds no columns", path)
	}
	return &st, nil
}
