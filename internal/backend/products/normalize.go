package products

import (
	"fmt"
	"net/url"
	"regexp"
)

const (
	amazonBaseURL = "https://www.amazon.com"
	// PlaceholderImage is served by the frontend for products without a picture.
	PlaceholderImage = "/no-image.png"
)

var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)[?&]asin=([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/product/([A-Z0-9]{10})`),
}

// NormalizeAmazonURL maps a product link to the canonical amazon.com/dp/ASIN form.
// A non-empty asin wins over anything found in rawURL. Links without a
// recognizable ASIN are returned unchanged.
func NormalizeAmazonURL(rawURL, asin string) string {
	if asin != "" {
		return productURL(asin)
	}
	for _, pattern := range asinPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return productURL(match[1])
		}
	}
	return rawURL
}

func productURL(asin string) string {
	return fmt.Sprintf("%s/dp/%s", amazonBaseURL, asin)
}

// SearchURL links to an amazon.com search for query.
func SearchURL(query string) string {
	return fmt.Sprintf("%s/s?k=%s", amazonBaseURL, url.QueryEscape(query))
}
