package models

import "time"

// Variant is one purchasable option of a product: a package size,
// purity grade or container choice. Fields are partial by nature:
// upstream payloads rarely carry all of them in one place.
type Variant struct {
	ID             string  `json:"id,omitempty"`
	SKU            string  `json:"sku,omitempty"`
	Title          string  `json:"title,omitempty"`
	Price          float64 `json:"price,omitempty"`
	CurrencyCode   string  `json:"currency_code,omitempty"`
	CurrencySymbol string  `json:"currency_symbol,omitempty"`
	Quantity       float64 `json:"quantity,omitempty"`
	UOM            string  `json:"uom,omitempty"`
}

// Resolvable reports whether the variant carries enough commercial
// data (price and quantity) to be shown to a buyer.
func (v Variant) Resolvable() bool {
	return v.Price > 0 && v.Quantity > 0
}

// Product is the normalized output unit emitted by the aggregator.
type Product struct {
	ID          string `json:"id"`
	UUID        string `json:"uuid,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Supplier    string `json:"supplier"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CAS         string `json:"cas,omitempty"`
	Vendor      string `json:"vendor,omitempty"`

	Price          float64 `json:"price,omitempty"`
	CurrencyCode   string  `json:"currency_code,omitempty"`
	CurrencySymbol string  `json:"currency_symbol,omitempty"`
	Quantity       float64 `json:"quantity,omitempty"`
	UOM            string  `json:"uom,omitempty"`

	Country  string `json:"country,omitempty"`
	Shipping string `json:"shipping,omitempty"`

	Variants []Variant `json:"variants"`

	Relevance float64   `json:"relevance,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
