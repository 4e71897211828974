package domain

import "fmt"

// ProductID is the stable catalogue identifier of a product
type ProductID = string

// CarbonFootprint holds the carbon cost of a product on one platform
type CarbonFootprint struct {
	Total float64 `json:"total" yaml:"total"`
}

// PlatformData is the offer of one retail platform for a product
type PlatformData struct {
	Platform        string          `json:"platform" yaml:"platform"`
	Price           float64         `json:"price" yaml:"price"`
	CarbonFootprint CarbonFootprint `json:"carbonFootprint" yaml:"carbonFootprint"`
	Link            string          `json:"link,omitempty" yaml:"link,omitempty"`
}

// Product is a catalogue entity sold on one or more platforms
type Product struct {
	ID           ProductID      `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Category     string         `json:"category,omitempty" yaml:"category,omitempty"`
	PlatformData []PlatformData `json:"platformData" yaml:"platformData"`
}

// Offer returns the product's data for a platform
func (p *Product) Offer(platform string) (PlatformData, bool) {
	for _, pd := range p.PlatformData {
		if pd.Platform == platform {
			return pd, true
		}
	}
	return PlatformData{}, false
}

// Validate checks the product invariants
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product %s: name is required", ErrValidation, p.ID)
	}
	seen := make(map[string]struct{}, len(p.PlatformData))
	for _, pd := range p.PlatformData {
		if pd.Platform == "" {
			return fmt.Errorf("%w: product %s: platform name is required", ErrValidation, p.ID)
		}
		if _, dup := seen[pd.Platform]; dup {
			return fmt.Errorf("%w: product %s: duplicate platform %q", ErrValidation, p.ID, pd.Platform)
		}
		seen[pd.Platform] = struct{}{}
	}
	return nil
}
