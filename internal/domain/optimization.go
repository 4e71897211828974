package domain

// Availability classifies whether a platform can fulfil the whole basket
type Availability string

const (
	AvailabilityAll     Availability = "all_products"
	AvailabilityPartial Availability = "partial"
)

// ProductDetail is one product's price and carbon on a given platform
type ProductDetail struct {
	ProductID       ProductID `json:"productId"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	CarbonFootprint float64   `json:"carbonFootprint"`
	Link            string    `json:"link,omitempty"`
}

// PlatformMetric is the per-platform aggregate over a requested product set
type PlatformMetric struct {
	Platform               string          `json:"platform"`
	TotalPrice             float64         `json:"totalPrice"`
	TotalCarbonFootprint   float64         `json:"totalCarbonFootprint"`
	AverageCarbonFootprint float64         `json:"averageCarbonFootprint"`
	ProductDetails         []ProductDetail `json:"productDetails"`
	Availability           Availability    `json:"availability"`
	ProductsFound          int             `json:"productsFound,omitempty"`
	TotalProducts          int             `json:"totalProducts,omitempty"`
}

// RankedPlatform is a platform metric with its normalized scores
type RankedPlatform struct {
	PlatformMetric
	PriceScore   float64 `json:"priceScore"`
	CarbonScore  float64 `json:"carbonScore"`
	OverallScore float64 `json:"overallScore"`
}

// PlatformComparison is the ranking produced over all platforms
type PlatformComparison struct {
	BestOverall           *RankedPlatform  `json:"bestOverall"`
	LowestCarbonFootprint *RankedPlatform  `json:"lowestCarbonFootprint"`
	LowestPrice           *RankedPlatform  `json:"lowestPrice"`
	AllPlatforms          []RankedPlatform `json:"allPlatforms"`
}

// ProductSummary identifies one product of the optimized cart
type ProductSummary struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// CartSummary describes the resolved product set
type CartSummary struct {
	TotalProducts int              `json:"totalProducts"`
	Products      []ProductSummary `json:"products"`
}

// OptimizationReport is the result of optimizing a cart across platforms
type OptimizationReport struct {
	CartSummary        CartSummary        `json:"cartSummary"`
	PlatformComparison PlatformComparison `json:"platformComparison"`
}
