package products

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestProductDocV1_ToProduct(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Product
		wantOK bool
	}{
		{
			name: "full document",
			raw: `{"product_id":"B07XJ8C8F5","product_title":" Bamboo Organizer ",
				"product_main_image_url":"https://m.media-amazon.com/a.jpg",
				"product_detail_url":"https://www.amazon.com/x/dp/B000000000",
				"app_sale_price":"19.99","app_sale_price_currency":"$",
				"evaluate_rate":"4.5 out of 5 stars"}`,
			want: Product{
				Title:      "Bamboo Organizer",
				Price:      "$19.99",
				ImageURL:   "https://m.media-amazon.com/a.jpg",
				ProductURL: "https://www.amazon.com/dp/B07XJ8C8F5",
				Rating:     ptr(4.5),
			},
			wantOK: true,
		},
		{
			name: "numeric price and defaults",
			raw:  `{"product_title":"Tray","app_sale_price":12.5}`,
			want: Product{
				Title:      "Tray",
				Price:      "12.5",
				ImageURL:   PlaceholderImage,
				ProductURL: "https://www.amazon.com/s?k=Tray",
			},
			wantOK: true,
		},
		{
			name: "missing price",
			raw:  `{"product_title":"Box","app_sale_price":null,"product_detail_url":"https://amazon.com/gp/product/B01N9KSITZ"}`,
			want: Product{
				Title:      "Box",
				Price:      priceNotAvailable,
				ImageURL:   PlaceholderImage,
				ProductURL: "https://www.amazon.com/dp/B01N9KSITZ",
			},
			wantOK: true,
		},
		{
			name:   "missing title is rejected",
			raw:    `{"product_id":"B07XJ8C8F5","app_sale_price":"1.00"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc productDocV1
			if err := json.Unmarshal([]byte(tt.raw), &doc); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			got, ok := doc.toProduct()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("toProduct mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
