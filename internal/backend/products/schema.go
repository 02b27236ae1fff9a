package products

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Product is one shoppable item as returned to clients.
type Product struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Price      string   `json:"price"`
	ImageURL   string   `json:"image_url"`
	ProductURL string   `json:"product_url"`
	Rating     *float64 `json:"rating,omitempty"`
}

const priceNotAvailable = "Price not available"

// searchResponseV1 is the "docs" response of the amazon24 product search API.
type searchResponseV1 struct {
	Docs []productDocV1 `json:"docs"`
}

type productDocV1 struct {
	ProductID            string    `json:"product_id"`
	ProductTitle         string    `json:"product_title"`
	ProductMainImageURL  string    `json:"product_main_image_url"`
	ProductDetailURL     string    `json:"product_detail_url"`
	AppSalePrice         flexValue `json:"app_sale_price"`
	AppSalePriceCurrency string    `json:"app_sale_price_currency"`
	EvaluateRate         string    `json:"evaluate_rate"`
}

// flexValue accepts a JSON string or number and keeps its textual form.
type flexValue string

func (v *flexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = flexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = flexValue(n.String())
	return nil
}

var leadingNumber = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)`)

// toProduct is the single mapping from the v1 schema to Product.
// Documents without a title are rejected.
func (d productDocV1) toProduct() (Product, bool) {
	title := strings.TrimSpace(d.ProductTitle)
	if title == "" {
		return Product{}, false
	}

	product := Product{
		Title:      title,
		ImageURL:   strings.TrimSpace(d.ProductMainImageURL),
		ProductURL: NormalizeAmazonURL(strings.TrimSpace(d.ProductDetailURL), strings.TrimSpace(d.ProductID)),
		Price:      d.price(),
	}
	if product.ImageURL == "" {
		product.ImageURL = PlaceholderImage
	}
	if product.ProductURL == "" {
		product.ProductURL = SearchURL(title)
	}
	if match := leadingNumber.FindStringSubmatch(d.EvaluateRate); match != nil {
		if rating, err := strconv.ParseFloat(match[1], 64); err == nil {
			product.Rating = &rating
		}
	}
	return product, true
}

func (d productDocV1) price() string {
	amount := strings.TrimSpace(string(d.AppSalePrice))
	if amount == "" {
		return priceNotAvailable
	}
	currency := strings.TrimSpace(d.AppSalePriceCurrency)
	if currency == "" || strings.HasPrefix(amount, currency) {
		return amount
	}
	return currency + amount
}
