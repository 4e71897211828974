package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/carboncart/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// readCart reads a YAML or JSON list of cart items
func readCart(path string) ([]domain.CartItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var items []domain.CartItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse cart %s: %w", path, err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// readResults reads recalculation results, either as a bare list or as the
// response document written by the recalculate command.
func readResults(path string) ([]domain.RecalcResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	var results []domain.RecalcResult
	if err := yaml.Unmarshal(data, &results); err == nil {
		return results, nil
	}

	var doc struct {
		Results []domain.RecalcResult `yaml:"results"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse results %s: %w", path, err)
	}
	return doc.Results, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
