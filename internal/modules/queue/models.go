package queue

import (
	"time"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/market"
)

// Item is one queued instrument. Position is the user's manual ordering;
// lower comes first.
type Item struct {
	ID         string            `json:"id"`
	UserID     string            `json:"-"`
	Symbol     string            `json:"symbol"`
	Confidence domain.Confidence `json:"confidence"`
	Position   int               `json:"position"`
	AddedAt    time.Time         `json:"addedAt"`
}

// EnrichedItem pairs a queue entry with its catalogue snapshot.
type EnrichedItem struct {
	Item
	Stock market.Stock `json:"stock"`
}

// Stats summarizes the queue for the stats endpoint.
type Stats struct {
	Total        int                       `json:"total"`
	ByConfidence map[domain.Confidence]int `json:"byConfidence"`
	BySector     map[string]int            `json:"bySector"`
	Sectors      int                       `json:"sectors"`
	TotalValue   float64                   `json:"totalValue"`
	AvgPrice     float64                   `json:"avgPrice"`
	OldestAdded  *time.Time                `json:"oldestAdded,omitempty"`
}
