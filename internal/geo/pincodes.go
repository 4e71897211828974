package geo

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// defaultPincodes covers the metro areas the extension is used in
var defaultPincodes = map[string]Coordinates{
	"560016": {13.0366, 77.6402}, // Bangalore KR Puram
	"560001": {12.9716, 77.5946}, // Bangalore central
	"560079": {12.9020, 77.5736}, // Bangalore HSR Layout
	"110001": {28.6448, 77.2167}, // New Delhi
	"400001": {18.9388, 72.8355}, // Mumbai
	"700001": {22.5726, 88.3639}, // Kolkata
	"600001": {13.0827, 80.2707}, // Chennai
}

// PincodeDirectory resolves Indian postal pincodes to coordinates
type PincodeDirectory struct {
	mu      sync.RWMutex
	entries map[string]Coordinates
}

// NewPincodeDirectory creates a directory seeded with the built-in pincodes
func NewPincodeDirectory() *PincodeDirectory {
	entries := make(map[string]Coordinates, len(defaultPincodes))
	for pin, c := range defaultPincodes {
		entries[pin] = c
	}
	return &PincodeDirectory{entries: entries}
}

// LoadPincodeDirectory creates a directory with the built-in pincodes plus
// the entries of a YAML file mapping pincode to {lat, lon}. An empty path
// loads only the built-ins.
func LoadPincodeDirectory(path string) (*PincodeDirectory, error) {
	dir := NewPincodeDirectory()
	if path == "" {
		return dir, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pincode file: %w", err)
	}

	var extra map[string]Coordinates
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse pincode file %s: %w", path, err)
	}

	for pin, c := range extra {
		dir.Add(pin, c)
	}
	return dir, nil
}

// Add registers or replaces a pincode
func (d *PincodeDirectory) Add(pincode string, c Coordinates) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[strings.TrimSpace(pincode)] = c
}

// Locate implements domain.PincodeLocator
func (d *PincodeDirectory) Locate(pincode string) (float64, float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.entries[strings.TrimSpace(pincode)]
	return c.Lat, c.Lon, ok
}

// Len returns the number of known pincodes
func (d *PincodeDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
