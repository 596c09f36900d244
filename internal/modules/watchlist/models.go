package watchlist

import (
	"time"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/market"
)

// Item is one watched instrument. Watching is lighter than queueing: no
// position, just an optional note and priority.
type Item struct {
	ID       string          `json:"id"`
	UserID   string          `json:"-"`
	Symbol   string          `json:"symbol"`
	Note     string          `json:"note,omitempty"`
	Priority domain.Priority `json:"priority"`
	AddedAt  time.Time       `json:"addedAt"`
}

// EnrichedItem pairs a watchlist entry with its catalogue snapshot.
type EnrichedItem struct {
	Item
	Stock market.Stock `json:"stock"`
}
