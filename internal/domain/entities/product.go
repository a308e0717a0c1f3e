package entities

import (
	"strings"
	"time"
)

// Vendor is the seller summary attached to a product
type Vendor struct {
	ID       string `json:"id" db:"id"`
	ShopName string `json:"shop_name" db:"shop_name"`
	LogoURL  string `json:"logo_url,omitempty" db:"cover_image_url"`
}

// Product represents a catalog item offered by a vendor.
// Optional text attributes are empty strings when absent; a missing rating is 0.
type Product struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description,omitempty" db:"description"`
	Category       string    `json:"category,omitempty" db:"category"`
	CulturalRegion string    `json:"cultural_region,omitempty" db:"cultural_region"`
	Price          float64   `json:"price" db:"price"`
	Rating         float64   `json:"rating" db:"rating"`
	ReviewCount    int       `json:"review_count" db:"review_count"`
	InStock        bool      `json:"in_stock" db:"in_stock"`
	StockQuantity  int       `json:"stock_quantity" db:"stock_quantity"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	IsFeatured     bool      `json:"is_featured" db:"is_featured"`
	Certifications []string  `json:"certifications,omitempty" db:"certifications"`
	ImageURLs      []string  `json:"image_urls,omitempty" db:"image_urls"`
	VendorID       string    `json:"vendor_id" db:"vendor_id"`
	Vendor         *Vendor   `json:"vendor,omitempty"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SearchText returns the lower-cased text searched by the query matchers.
// When withCategory is set the category is appended.
func (p *Product) SearchText(withCategory bool) string {
	text := p.Name + " " + p.Description
	if withCategory {
		text += " " + p.Category
	}
	return strings.ToLower(text)
}
