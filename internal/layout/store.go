package layout

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// NormRect is a rectangle expressed as fractions of the surface size, so a
// saved layout survives surface resizes.
type NormRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Load reads saved layout overrides from disk. Missing files return an empty
// table.
func Load(path string) (map[Control]NormRect, error) {
	out := make(map[Control]NormRect)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	var named map[string]NormRect
	if err := json.Unmarshal(data, &named); err != nil {
		return nil, err
	}
	for c := Control(0); c < controlCount; c++ {
		if r, ok := named[c.String()]; ok {
			out[c] = r
		}
	}
	return out, nil
}

// Save writes layout overrides to disk, creating parent directories as needed.
func Save(path string, overrides map[Control]NormRect) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	named := make(map[string]NormRect, len(overrides))
	for c, r := range overrides {
		named[c.String()] = r
	}
	data, err := json.MarshalIndent(named, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
