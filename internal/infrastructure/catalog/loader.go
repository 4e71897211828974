package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/util"
	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogFile is the document layout of YAML and JSON catalogues
type catalogFile struct {
	Products []domain.Product `json:"products" yaml:"products"`
}

// OfferRow is one product offer on one platform, the row layout of parquet catalogues
type OfferRow struct {
	ProductID       string  `parquet:"product_id"`
	Name            string  `parquet:"name"`
	Category        string  `parquet:"category"`
	Platform        string  `parquet:"platform"`
	Price           float64 `parquet:"price"`
	CarbonFootprint float64 `parquet:"carbon_footprint"`
	Link            string  `parquet:"link"`
}

// Load reads a product catalogue from a YAML, JSON or Parquet file
func Load(path string) ([]domain.Product, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		products []domain.Product
		err      error
	)
	switch ext {
	case ".yaml", ".yml":
		products, err = loadDocument(path, yaml.Unmarshal)
	case ".json":
		products, err = loadDocument(path, json.Unmarshal)
	case ".parquet":
		products, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported catalogue format: %s (supported: .yaml, .json, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := validateAll(products); err != nil {
		return nil, err
	}

	util.Named("catalog").Info("catalogue loaded",
		zap.String("path", path),
		zap.Int("products", len(products)))
	return products, nil
}

func loadDocument(path string, unmarshal func([]byte, interface{}) error) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}

	var doc catalogFile
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue %s: %w", path, err)
	}
	return doc.Products, nil
}

func loadParquet(path string) ([]domain.Product, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[OfferRow](pf)
	defer reader.Close()

	offers, err := readOffers(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet rows from %s: %w", path, err)
	}
	return GroupOffers(offers), nil
}

type offerReader interface {
	Read(rows []OfferRow) (int, error)
}

// readOffers drains r until io.EOF
func readOffers(r offerReader) ([]OfferRow, error) {
	var offers []OfferRow
	rows := make([]OfferRow, 128)
	for {
		n, err := r.Read(rows)
		offers = append(offers, rows[:n]...)
		if errors.Is(err, io.EOF) {
			return offers, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// GroupOffers folds offer rows into products, in order of first appearance
func GroupOffers(offers []OfferRow) []domain.Product {
	index := make(map[string]int)
	var products []domain.Product

	for _, o := range offers {
		i, ok := index[o.ProductID]
		if !ok {
			i = len(products)
			index[o.ProductID] = i
			products = append(products, domain.Product{
				ID:           o.ProductID,
				Name:         o.Name,
				Category:     o.Category,
				PlatformData: []domain.PlatformData{},
			})
		}
		if o.Platform == "" {
			continue
		}
		products[i].PlatformData = append(products[i].PlatformData, domain.PlatformData{
			Platform:        o.Platform,
			Price:           o.Price,
			CarbonFootprint: domain.CarbonFootprint{Total: o.CarbonFootprint},
			Link:            o.Link,
		})
	}
	return products
}

func validateAll(products []domain.Product) error {
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[products[i].ID]; dup {
			return fmt.Errorf("%w: duplicate product id %s", domain.ErrValidation, products[i].ID)
		}
		seen[products[i].ID] = struct{}{}
		if products[i].PlatformData == nil {
			products[i].PlatformData = []domain.PlatformData{}
		}
	}
	return nil
}
