package entities

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEventType represents the type of catalog change
type CatalogEventType string

const (
	CatalogEventProductUpserted  CatalogEventType = "product_upserted"
	CatalogEventProductDeleted   CatalogEventType = "product_deleted"
	CatalogEventCatalogReindexed CatalogEventType = "catalog_reindexed"
)

// CatalogEvent notifies subscribers that the product catalog changed
type CatalogEvent struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id,omitempty"`
	EventType CatalogEventType `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewCatalogEvent creates a new catalog event. productID is empty for
// catalog-wide events.
func NewCatalogEvent(productID string, eventType CatalogEventType) *CatalogEvent {
	return &CatalogEvent{
		ID:        uuid.NewString(),
		ProductID: productID,
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
