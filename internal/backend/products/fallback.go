package products

import (
	"fmt"
	"math"
)

var fallbackCatalog = []struct {
	title        string
	budgetShare  float64
	defaultPrice string
	query        string
}{
	{title: "Desk Organizer Storage Box", budgetShare: 0.10, defaultPrice: "$24.99", query: "desk organizer"},
	{title: "Cable Management System", budgetShare: 0.05, defaultPrice: "$12.99", query: "cable organizer"},
	{title: "Desk Storage Tray", budgetShare: 0.08, defaultPrice: "$18.99", query: "desk tray"},
	{title: "Storage Box Set", budgetShare: 0.06, defaultPrice: "$15.99", query: "storage box"},
}

// FallbackItems returns the four built-in products used when search yields nothing.
// With a positive budget each price is floor(budget*share).99 dollars.
func FallbackItems(budget *float64) []Product {
	items := make([]Product, 0, len(fallbackCatalog))
	for i, entry := range fallbackCatalog {
		price := entry.defaultPrice
		if budget != nil && *budget > 0 {
			price = fmt.Sprintf("$%d.99", int64(math.Floor(*budget*entry.budgetShare)))
		}
		items = append(items, Product{
			ID:         fmt.Sprintf("%d", i+1),
			Title:      entry.title,
			Price:      price,
			ImageURL:   PlaceholderImage,
			ProductURL: SearchURL(entry.query),
		})
	}
	return items
}
