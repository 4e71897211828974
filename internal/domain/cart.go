package domain

import "strings"

// CartItem is one scraped product line. Name is free text, not a stable key.
type CartItem struct {
	Name            string   `json:"name" yaml:"name"`
	Quantity        string   `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Price           float64  `json:"price" yaml:"price"`
	ImageURL        string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	SourceLocation  string   `json:"sourceLocation,omitempty" yaml:"sourceLocation,omitempty"`
	SourcePincode   string   `json:"sourcePincode,omitempty" yaml:"sourcePincode,omitempty"`
	SellerPincode   string   `json:"sellerPincode,omitempty" yaml:"sellerPincode,omitempty"`
	CountryOfOrigin string   `json:"countryOfOrigin,omitempty" yaml:"countryOfOrigin,omitempty"`
	EANCode         string   `json:"eanCode,omitempty" yaml:"eanCode,omitempty"`
	EstimatedCarbon float64  `json:"estimatedCarbon" yaml:"estimatedCarbon"`
	DistanceKm      *float64 `json:"distance_km,omitempty" yaml:"distance_km,omitempty"`
	CarbonFootprint *float64 `json:"carbon_footprint,omitempty" yaml:"carbon_footprint,omitempty"`
	UserPincode     string   `json:"userPincode,omitempty" yaml:"userPincode,omitempty"`
}

// Clone returns a copy that shares no pointers with the receiver
func (c CartItem) Clone() CartItem {
	out := c
	out.DistanceKm = copyFloat(c.DistanceKm)
	out.CarbonFootprint = copyFloat(c.CarbonFootprint)
	return out
}

// SellerPin is the seller pincode, preferring sourcePincode over sellerPincode
func (c CartItem) SellerPin() string {
	if pin := strings.TrimSpace(c.SourcePincode); pin != "" {
		return pin
	}
	return strings.TrimSpace(c.SellerPincode)
}

// EffectiveCarbon is the recalculated footprint when known, otherwise the local estimate
func (c CartItem) EffectiveCarbon() float64 {
	if c.CarbonFootprint != nil {
		return *c.CarbonFootprint
	}
	return c.EstimatedCarbon
}

// RecalcResult is one backend-computed enrichment for a cart item
type RecalcResult struct {
	Name            string    `json:"name" yaml:"name"`
	Original        *CartItem `json:"original,omitempty" yaml:"original,omitempty"`
	DistanceKm      *float64  `json:"distance_km" yaml:"distance_km"`
	CarbonFootprint *float64  `json:"carbon_footprint,omitempty" yaml:"carbon_footprint,omitempty"`
	SourcePincode   string    `json:"sourcePincode,omitempty" yaml:"sourcePincode,omitempty"`
	UserPincode     string    `json:"userPincode,omitempty" yaml:"userPincode,omitempty"`
}

// RecalcRequest is the payload sent to the recalculation backend
type RecalcRequest struct {
	Pincode string     `json:"pincode"`
	Items   []CartItem `json:"items"`
}

// RecalcResponse is the recalculation backend reply
type RecalcResponse struct {
	Success          bool           `json:"success"`
	UserPincode      string         `json:"userPincode"`
	Results          []RecalcResult `json:"results"`
	GeminiKeyPresent bool           `json:"gemini_key_present"`
}

// FootprintRating buckets a cart's total footprint
type FootprintRating string

const (
	RatingLow    FootprintRating = "low"
	RatingMedium FootprintRating = "medium"
	RatingHigh   FootprintRating = "high"
)

// CartFootprint summarises the carbon footprint of a reconciled cart
type CartFootprint struct {
	TotalCarbon     float64         `json:"totalCarbon"`
	Rating          FootprintRating `json:"rating"`
	Equivalent      string          `json:"equivalent"`
	HighCarbonItems []string        `json:"highCarbonItems"`
	Suggestion      string          `json:"suggestion"`
	Alternatives    []Alternative   `json:"alternatives"`
}

// Alternative names a lower-carbon swap for a cart item
type Alternative struct {
	Item         string  `json:"item"`
	Alternative  string  `json:"alternative"`
	CarbonSaving float64 `json:"carbonSaving"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
