package webstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"chemscout/internal/parse"
)

// ldProduct is a schema.org Product as found in JSON-LD script tags.
// Offers may be a single object or an array; both are accepted.
type ldProduct struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Weight      string          `json:"weight"`
	Brand       *ldBrand        `json:"brand"`
	Offers      json.RawMessage `json:"offers"`

	AdditionalProperty []ldProperty    `json:"additionalProperty"`
	ItemListElement    []ldListElement `json:"itemListElement"`
}

type ldBrand struct {
	Name string `json:"name"`
}

type ldProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ldListElement struct {
	Item *ldProduct `json:"item"`
}

type ldOffer struct {
	Price         priceText `json:"price"`
	PriceCurrency string    `json:"priceCurrency"`
}

// priceText accepts the price as either a JSON number or a string;
// schema.org markup in the wild uses both.
type priceText string

func (p *priceText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = priceText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = priceText(n.String())
	return nil
}

func (o ldOffer) PriceValue() (float64, error) {
	if o.Price != "" {
		return parse.ParseNumber(string(o.Price))
	}
	return 0, fmt.Errorf("offer without price")
}

// AllOffers flattens the offers field whether upstream emitted one
// object or a list.
func (p ldProduct) AllOffers() []ldOffer {
	if len(p.Offers) == 0 {
		return nil
	}
	var one ldOffer
	if err := json.Unmarshal(p.Offers, &one); err == nil && one.Price != "" {
		return []ldOffer{one}
	}
	var many []ldOffer
	if err := json.Unmarshal(p.Offers, &many); err == nil {
		return many
	}
	return nil
}

// CAS digs a CAS registry number out of the additionalProperty list.
func (p ldProduct) CAS() string {
	for _, prop := range p.AdditionalProperty {
		name := strings.ToLower(prop.Name)
		if strings.Contains(name, "cas") && parse.ValidCAS(prop.Value) {
			return prop.Value
		}
	}
	return ""
}

// PackSize resolves the package quantity from the weight field or the
// product name, in that order.
func (p ldProduct) PackSize() (parse.Quantity, error) {
	if p.Weight != "" {
		if q, err := parse.ParseQuantity(p.Weight); err == nil {
			return q, nil
		}
	}
	// Names like "Toluene ACS, 500 mL" keep the size after the last comma.
	if i := strings.LastIndexByte(p.Name, ','); i >= 0 {
		if q, err := parse.ParseQuantity(strings.TrimSpace(p.Name[i+1:])); err == nil {
			return q, nil
		}
	}
	return parse.Quantity{}, fmt.Errorf("no pack size in record")
}

// extractJSONLD parses an HTML document and collects every schema.org
// Product from its ld+json script tags. A page with no such tags is
// not an error; the caller decides whether to fall back to rendering.
func extractJSONLD(htmlContent string) ([]ldProduct, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var products []ldProduct
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isLDJSON(n) && n.FirstChild != nil {
			products = append(products, parseLDBlock(n.FirstChild.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return products, nil
}

func isLDJSON(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key == "type" && attr.Val == "application/ld+json" {
			return true
		}
	}
	return false
}

// parseLDBlock accepts a single object, an ItemList, or an array of
// objects, and keeps only @type == "Product" entries.
func parseLDBlock(data string) []ldProduct {
	data = strings.TrimSpace(data)

	var one ldProduct
	if err := json.Unmarshal([]byte(data), &one); err == nil {
		if one.Type == "Product" {
			return []ldProduct{one}
		}
		if one.Type == "ItemList" {
			var out []ldProduct
			for _, elem := range one.ItemListElement {
				if elem.Item != nil && elem.Item.Type == "Product" {
					out = append(out, *elem.Item)
				}
			}
			return out
		}
	}

	var many []ldProduct
	if err := json.Unmarshal([]byte(data), &many); err == nil {
		var out []ldProduct
		for _, p := range many {
			if p.Type == "Product" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}
