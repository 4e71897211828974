package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/util"
	"go.uber.org/zap"
)

// TextGenerator produces a completion for a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Estimator asks a language model for an item's footprint and falls back to
// another estimator whenever the model fails or answers without a number.
type Estimator struct {
	generator TextGenerator
	fallback  domain.CarbonEstimator
	logger    *zap.Logger
}

// NewEstimator creates a model-backed estimator
func NewEstimator(generator TextGenerator, fallback domain.CarbonEstimator) *Estimator {
	return &Estimator{
		generator: generator,
		fallback:  fallback,
		logger:    util.Named("gemini"),
	}
}

// Estimate implements domain.CarbonEstimator
func (e *Estimator) Estimate(ctx context.Context, item domain.CartItem, distanceKm *float64) (float64, error) {
	value, err := e.estimate(ctx, item, distanceKm)
	if err == nil {
		return value, nil
	}

	e.logger.Warn("falling back to transport estimate", zap.String("item", item.Name), zap.Error(err))
	util.EstimatorFallbacksTotal.Inc()
	return e.fallback.Estimate(ctx, item, distanceKm)
}

func (e *Estimator) estimate(ctx context.Context, item domain.CartItem, distanceKm *float64) (float64, error) {
	prompt, err := buildPrompt(item, distanceKm)
	if err != nil {
		return 0, err
	}

	text, err := e.generator.GenerateText(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEstimatorUnavailable, err)
	}

	value, ok := parseFootprint(text)
	if !ok {
		return 0, fmt.Errorf("%w: no number in response", domain.ErrEstimatorUnavailable)
	}
	return value, nil
}

var (
	numberRegex      = regexp.MustCompile(`\d+(?:\.\d+)?`)
	finalAnswerRegex = regexp.MustCompile(`(?i)(?:final answer|total)[^0-9]*(\d+(?:\.\d+)?)`)
)

// parseFootprint prefers the value labelled as the final answer or total,
// then the first number in text.
func parseFootprint(text string) (float64, bool) {
	candidate := ""
	if matches := finalAnswerRegex.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		candidate = matches[len(matches)-1][1]
	} else {
		candidate = numberRegex.FindString(text)
	}
	if candidate == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(candidate, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

var promptTemplate = template.Must(template.New("prompt").Parse(`You are a carbon footprint calculation expert. Calculate the total carbon footprint in kg CO2 for the following grocery item, with special emphasis on transportation emissions based on distance.

Item Details:
- Name: {{.Name}}
- Quantity: {{.Quantity}}
- Price: {{.Price}}
- Source Location: {{.SourceLocation}}
- Source Pincode: {{.SourcePincode}}
- Country of Origin: {{.CountryOfOrigin}}
- EAN Code: {{.EANCode}}
- Distance Traveled: {{.Distance}} km

Calculation Instructions:
1. Estimate the base footprint for production, packaging and storage, without transportation.
2. Add transportation emissions for the distance traveled:
   - Road transport: 0.12 kg CO2 per km per kg of goods
   - Air freight (if imported): 0.6 kg CO2 per km per kg of goods
   - Sea freight (if imported): 0.02 kg CO2 per km per kg of goods
3. Fresh produce has a lower base footprint; processed and packaged goods a higher one.
4. Add 10-30% for cold chain if the item needs refrigeration.

Answer in this format:
Base production footprint: X kg CO2
Transportation: Y kg CO2
Final Answer: Z
`))

type promptData struct {
	Name            string
	Quantity        string
	Price           string
	SourceLocation  string
	SourcePincode   string
	CountryOfOrigin string
	EANCode         string
	Distance        string
}

func buildPrompt(item domain.CartItem, distanceKm *float64) (string, error) {
	data := promptData{
		Name:            orUnknown(item.Name),
		Quantity:        orUnknown(item.Quantity),
		Price:           "Unknown",
		SourceLocation:  orUnknown(item.SourceLocation),
		SourcePincode:   orUnknown(item.SellerPin()),
		CountryOfOrigin: orUnknown(item.CountryOfOrigin),
		EANCode:         orUnknown(item.EANCode),
		Distance:        "Unknown",
	}
	if item.Price > 0 {
		data.Price = fmt.Sprintf("₹%.2f", item.Price)
	}
	if distanceKm != nil {
		data.Distance = strconv.FormatFloat(*distanceKm, 'f', 2, 64)
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
