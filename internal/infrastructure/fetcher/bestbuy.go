package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

const (
	bestBuyAPIBase     = "https://api.bestbuy.com/v1"
	scraperAPIEndpoint = "https://api.scraperapi.com/"

	// Display name used for every Best Buy observation. The product page
	// title moves around between page variants; a fixed name keeps the
	// (source, name) history key stable.
	bestBuyProductName = `MacBook Pro 14" M4 Pro 24GB 512GB Space Black`

	// Prices outside this range are pattern noise (bundle totals, monthly
	// installments), not the tracked laptop.
	minPlausiblePrice = 500
	maxPlausiblePrice = 8000

	maxPageBytes = 4 << 20
)

// ErrNoPrice is returned when every configured strategy failed to produce
// a price this cycle.
var ErrNoPrice = errors.New("no price retrieved")

// pricePatterns are tried in order against the raw page body; the first
// match that parses into a plausible price wins. The patterns target the
// JSON blobs embedded in the product page, not the rendered DOM.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"customerPrice"\s*:\s*([\d.]+)`),
	regexp.MustCompile(`"salePrice"\s*:\s*([\d.]+)`),
	regexp.MustCompile(`"currentPrice"\s*:\s*([\d.]+)`),
	regexp.MustCompile(`"priceToDisplay"\s*:\s*([\d.]+)`),
	regexp.MustCompile(`class="sr-only">\$([\d,]+\.\d{2})`),
	regexp.MustCompile(`"price"\s*:\s*([\d.]+)`),
}

// fetchStrategy is one attempt at obtaining a Best Buy price. Strategies
// are tried in priority order; the first one to return a product wins.
type fetchStrategy interface {
	Name() string
	Fetch(ctx context.Context) (*entity.Product, error)
}

// BestBuyFetcher reads the Best Buy price through an ordered strategy
// chain: the official catalog API when a key is configured (list price
// only), then a render-proxy page scrape for the real promotional price.
type BestBuyFetcher struct {
	log        *logrus.Logger
	strategies []fetchStrategy
}

// NewBestBuyFetcher wires the strategies the configuration enables.
func NewBestBuyFetcher(cfg *config.Config, log *logrus.Logger) repository.Fetcher {
	client := &http.Client{Timeout: 60 * time.Second}

	var strategies []fetchStrategy
	if cfg.BestBuyAPIKey != "" {
		strategies = append(strategies, &officialAPIStrategy{
			client:     client,
			endpoint:   bestBuyAPIBase,
			apiKey:     cfg.BestBuyAPIKey,
			sku:        cfg.BestBuySKU,
			productURL: cfg.BestBuyProductURL,
		})
	}
	if cfg.EnableScrapeFallback && cfg.ScraperAPIKey != "" {
		strategies = append(strategies, &renderProxyStrategy{
			client:     client,
			endpoint:   scraperAPIEndpoint,
			apiKey:     cfg.ScraperAPIKey,
			productURL: cfg.BestBuyProductURL,
		})
	}

	return &BestBuyFetcher{log: log, strategies: strategies}
}

func (f *BestBuyFetcher) Source() entity.Source { return entity.SourceBestBuy }

// Fetch tries each strategy in order and returns the first product obtained.
func (f *BestBuyFetcher) Fetch(ctx context.Context) ([]entity.Product, error) {
	for _, s := range f.strategies {
		product, err := s.Fetch(ctx)
		if err != nil {
			f.log.WithError(err).WithField("strategy", s.Name()).
				Warn("best buy strategy failed")
			continue
		}
		f.log.WithFields(logrus.Fields{
			"strategy": s.Name(),
			"price":    product.Price,
		}).Debug("best buy strategy succeeded")
		return []entity.Product{*product}, nil
	}
	return nil, fmt.Errorf("best buy: %w (strategies configured: %d)", ErrNoPrice, len(f.strategies))
}

// officialAPIStrategy queries api.bestbuy.com. It returns the list price
// (MSRP), not temporary promotional discounts, so it sits first in the
// chain only as the cheap, reliable option.
type officialAPIStrategy struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	sku        string
	productURL string
}

func (s *officialAPIStrategy) Name() string { return "official-api" }

func (s *officialAPIStrategy) Fetch(ctx context.Context) (*entity.Product, error) {
	url := fmt.Sprintf("%s/products/%s.json", s.endpoint, s.sku)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	q := req.URL.Query()
	q.Set("apiKey", s.apiKey)
	q.Set("show", "name,salePrice,regularPrice,onSale")
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("sku %s not found", s.sku)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload struct {
		SalePrice    *float64 `json:"salePrice"`
		RegularPrice *float64 `json:"regularPrice"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.SalePrice == nil {
		return nil, errors.New("response has no sale price")
	}

	return &entity.Product{
		Source:        entity.SourceBestBuy,
		Name:          bestBuyProductName,
		SKU:           s.sku,
		Price:         *payload.SalePrice,
		URL:           s.productURL,
		OriginalPrice: payload.RegularPrice,
		Raw:           body,
	}, nil
}

// renderProxyStrategy fetches the product page through a fetch-and-render
// proxy and extracts the price from the returned body with the ordered
// pattern list. This is the only strategy that sees temporary discounts.
type renderProxyStrategy struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	productURL string
}

func (s *renderProxyStrategy) Name() string { return "render-proxy" }

func (s *renderProxyStrategy) Fetch(ctx context.Context) (*entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	q := req.URL.Query()
	q.Set("api_key", s.apiKey)
	q.Set("url", s.productURL)
	q.Set("premium", "true")
	q.Set("country_code", "us")
	q.Set("device_type", "desktop")
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proxy returned status %d: %s", resp.StatusCode, snippet(body))
	}

	price, _, ok := extractPrice(string(body))
	if !ok {
		return nil, fmt.Errorf("price not found in page (%d bytes)", len(body))
	}

	return &entity.Product{
		Source: entity.SourceBestBuy,
		Name:   bestBuyProductName,
		SKU:    skuFromURL(s.productURL),
		Price:  price,
		URL:    s.productURL,
	}, nil
}

// extractPrice tries the ordered pattern list against the page body and
// returns the first plausible match together with the pattern that hit.
func extractPrice(body string) (float64, string, bool) {
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		if price, ok := parsePrice(m[1]); ok {
			return price, re.String(), true
		}
	}
	return 0, "", false
}

// parsePrice normalizes a matched price string and rejects values outside
// the plausible range for the tracked model.
func parsePrice(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	cleaned = strings.TrimPrefix(cleaned, "$")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if v <= minPlausiblePrice || v >= maxPlausiblePrice {
		return 0, false
	}
	return v, true
}

func skuFromURL(productURL string) string {
	if i := strings.LastIndex(productURL, "/"); i >= 0 && i < len(productURL)-1 {
		return productURL[i+1:]
	}
	return ""
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
