package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

const appleBaseURL = "https://www.apple.com"

// refurbGridPattern locates the refurbished-grid bootstrap payload the
// listing page embeds as a script-tag assignment. The payload is the only
// statement in its tag, so matching up to the closing tag is safe.
var refurbGridPattern = regexp.MustCompile(`(?s)window\.REFURB_GRID_BOOTSTRAP\s*=\s*(\{.*?\})\s*;?\s*</script>`)

// refurbGrid mirrors the slice of the bootstrap payload the watcher needs.
type refurbGrid struct {
	Tiles []refurbTile `json:"tiles"`
}

type refurbTile struct {
	Title             string `json:"title"`
	PartNumber        string `json:"partNumber"`
	ProductDetailsURL string `json:"productDetailsUrl"`
	Price             struct {
		SEOPrice      float64 `json:"seoPrice"`
		OriginalPrice float64 `json:"originalPrice"`
	} `json:"price"`
}

// AppleRefurbishedFetcher reads the US refurbished Mac listing and returns
// every tile matching the tracked model. Zero matches is a normal outcome;
// refurbished stock comes and goes.
type AppleRefurbishedFetcher struct {
	client   *http.Client
	log      *logrus.Logger
	storeURL string
	keyword  string
}

// NewAppleRefurbishedFetcher builds the fetcher from configuration.
func NewAppleRefurbishedFetcher(cfg *config.Config, log *logrus.Logger) repository.Fetcher {
	return &AppleRefurbishedFetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
		storeURL: cfg.AppleStoreURL,
		keyword:  cfg.AppleModelKeyword,
	}
}

func (f *AppleRefurbishedFetcher) Source() entity.Source { return entity.SourceAppleRefurbished }

// Fetch downloads the listing page, decodes the embedded tile grid and
// filters it down to the tracked model.
func (f *AppleRefurbishedFetcher) Fetch(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.storeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	grid, err := parseRefurbGrid(body)
	if err != nil {
		return nil, err
	}

	var products []entity.Product
	for _, tile := range grid.Tiles {
		if !matchesTargetModel(tile.Title, f.keyword) {
			continue
		}
		url := tile.ProductDetailsURL
		switch {
		case url == "":
			url = f.storeURL
		case strings.HasPrefix(url, "/"):
			url = appleBaseURL + url
		}
		p := entity.Product{
			Source: entity.SourceAppleRefurbished,
			Name:   tile.Title,
			SKU:    tile.PartNumber,
			Price:  tile.Price.SEOPrice,
			URL:    url,
		}
		if tile.Price.OriginalPrice > 0 {
			original := tile.Price.OriginalPrice
			p.OriginalPrice = &original
		}
		products = append(products, p)
	}

	f.log.WithFields(logrus.Fields{
		"tiles":   len(grid.Tiles),
		"matches": len(products),
	}).Debug("apple refurbished listing parsed")

	return products, nil
}

// parseRefurbGrid extracts and decodes the embedded tile payload.
func parseRefurbGrid(page []byte) (*refurbGrid, error) {
	m := refurbGridPattern.FindSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("refurb grid payload not found in page (%d bytes)", len(page))
	}
	var grid refurbGrid
	if err := json.Unmarshal(m[1], &grid); err != nil {
		return nil, fmt.Errorf("failed to decode refurb grid: %w", err)
	}
	return &grid, nil
}

// matchesTargetModel filters listing titles down to the tracked model:
// a MacBook Pro carrying the configured size keyword.
func matchesTargetModel(title, keyword string) bool {
	lower := strings.ToLower(title)
	if !strings.Contains(lower, "macbook pro") {
		return false
	}
	return strings.Contains(lower, strings.ToLower(keyword))
}
