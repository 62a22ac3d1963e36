package entity

import "time"

// Source identifies the storefront a price was observed on.
type Source string

const (
	SourceBestBuy          Source = "bestbuy"
	SourceAppleRefurbished Source = "apple_refurbished"
)

// Valid reports whether s is one of the known storefronts.
func (s Source) Valid() bool {
	switch s {
	case SourceBestBuy, SourceAppleRefurbished:
		return true
	}
	return false
}

// Product is a single priced observation of the tracked model.
// Price is USD and must be non-negative.
type Product struct {
	Source        Source
	Name          string
	SKU           string
	Price         float64
	URL           string
	OriginalPrice *float64 // pre-discount price when the storefront exposes it
	Raw           []byte   // upstream payload, kept for debugging
}

// PriceRecord is one row of the append-only price history. Rows are written
// once and never updated or deleted. Identity of a product across time is
// the (Source, ProductName) pair; SKU is stored as a stable secondary key.
type PriceRecord struct {
	ID            int64
	Source        string
	ProductName   string
	SKU           string
	Price         float64
	URL           string
	OriginalPrice *float64
	RecordedAt    time.Time
}
