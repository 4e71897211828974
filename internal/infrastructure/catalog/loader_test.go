package catalog

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/carboncart/backend/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlCatalogue = `products:
  - id: p1
    name: Organic Tomatoes
    category: vegetables
    platformData:
      - platform: Zepto
        price: 40
        carbonFootprint:
          total: 0.5
      - platform: Blinkit
        price: 45
        carbonFootprint:
          total: 0.4
        link: https://blinkit.example/p1
  - id: p2
    name: Basmati Rice
    platformData:
      - platform: Blinkit
        price: 120
        carbonFootprint:
          total: 4.0
`

const jsonCatalogue = `{"products":[
  {"id":"p1","name":"Organic Tomatoes","category":"vegetables","platformData":[
    {"platform":"Zepto","price":40,"carbonFootprint":{"total":0.5}},
    {"platform":"Blinkit","price":45,"carbonFootprint":{"total":0.4},"link":"https://blinkit.example/p1"}]},
  {"id":"p2","name":"Basmati Rice","platformData":[
    {"platform":"Blinkit","price":120,"carbonFootprint":{"total":4.0}}]}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func assertCatalogue(t *testing.T, products []domain.Product) {
	t.Helper()
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "vegetables", products[0].Category)
	require.Len(t, products[0].PlatformData, 2)
	assert.Equal(t, "Zepto", products[0].PlatformData[0].Platform)
	assert.InDelta(t, 0.4, products[0].PlatformData[1].CarbonFootprint.Total, 1e-9)
	assert.Equal(t, "https://blinkit.example/p1", products[0].PlatformData[1].Link)

	assert.Equal(t, "Basmati Rice", products[1].Name)
	assert.InDelta(t, 120, products[1].PlatformData[0].Price, 1e-9)
}

func TestLoad_YAML(t *testing.T) {
	products, err := Load(writeFile(t, "catalogue.yaml", yamlCatalogue))
	require.NoError(t, err)
	assertCatalogue(t, products)
}

func TestLoad_JSON(t *testing.T) {
	products, err := Load(writeFile(t, "catalogue.json", jsonCatalogue))
	require.NoError(t, err)
	assertCatalogue(t, products)
}

func TestLoad_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.parquet")
	rows := []OfferRow{
		{ProductID: "p1", Name: "Organic Tomatoes", Category: "vegetables", Platform: "Zepto", Price: 40, CarbonFootprint: 0.5},
		{ProductID: "p1", Name: "Organic Tomatoes", Category: "vegetables", Platform: "Blinkit", Price: 45, CarbonFootprint: 0.4, Link: "https://blinkit.example/p1"},
		{ProductID: "p2", Name: "Basmati Rice", Platform: "Blinkit", Price: 120, CarbonFootprint: 4.0},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	products, err := Load(path)
	require.NoError(t, err)
	assertCatalogue(t, products)
}

// stubOfferReader returns one batch per call, then err
type stubOfferReader struct {
	batches [][]OfferRow
	err     error
}

func (s *stubOfferReader) Read(rows []OfferRow) (int, error) {
	if len(s.batches) == 0 {
		return 0, s.err
	}
	n := copy(rows, s.batches[0])
	s.batches = s.batches[1:]
	return n, nil
}

func TestReadOffers(t *testing.T) {
	batch := []OfferRow{{ProductID: "p1", Name: "Milk", Platform: "Zepto", Price: 30}}

	t.Run("stops at EOF", func(t *testing.T) {
		offers, err := readOffers(&stubOfferReader{batches: [][]OfferRow{batch, batch}, err: io.EOF})
		require.NoError(t, err)
		assert.Len(t, offers, 2)
	})

	t.Run("returns read failures", func(t *testing.T) {
		boom := errors.New("corrupt page")
		offers, err := readOffers(&stubOfferReader{batches: [][]OfferRow{batch}, err: boom})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, offers)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		isValid bool
	}{
		{"unsupported extension", "catalogue.csv", "id,name", false},
		{"malformed yaml", "catalogue.yaml", "products: [", false},
		{"duplicate ids", "catalogue.yaml", "products:\n  - {id: p1, name: A}\n  - {id: p1, name: B}\n", true},
		{"missing name", "catalogue.json", `{"products":[{"id":"p1"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.isValid, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGroupOffers_KeepsProductsWithoutPlatform(t *testing.T) {
	products := GroupOffers([]OfferRow{
		{ProductID: "p1", Name: "Paneer"},
		{ProductID: "p2", Name: "Milk", Platform: "Zepto", Price: 30},
	})

	require.Len(t, products, 2)
	assert.Empty(t, products[0].PlatformData)
	assert.NotNil(t, products[0].PlatformData)
	assert.Len(t, products[1].PlatformData, 1)
}
