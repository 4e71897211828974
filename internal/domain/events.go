package domain

import "time"

// Event types
const (
	EventTypeCartOptimized  = "cart.optimized"
	EventTypeCartReconciled = "cart.reconciled"
)

// BaseEvent carries fields shared by all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartOptimizedEvent is published after a successful optimization
type CartOptimizedEvent struct {
	BaseEvent
	ProductIDs    []ProductID `json:"product_ids"`
	PlatformCount int         `json:"platform_count"`
	BestOverall   string      `json:"best_overall,omitempty"`
	LowestPrice   string      `json:"lowest_price,omitempty"`
	LowestCarbon  string      `json:"lowest_carbon,omitempty"`
}

// CartReconciledEvent is published after a reconciliation
type CartReconciledEvent struct {
	BaseEvent
	Items       int     `json:"items"`
	Matched     int     `json:"matched"`
	Malformed   int     `json:"malformed"`
	TotalCarbon float64 `json:"total_carbon"`
}
