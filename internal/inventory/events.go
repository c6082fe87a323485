package inventory

import "time"

const EventStockMovementRecorded = "StockMovementRecorded"

// StockMovementRecorded is emitted after a movement and the counter
// update commit together.
type StockMovementRecorded struct {
	MovementID    string       `json:"movement_id"`
	ProductID     string       `json:"product_id"`
	ProductName   string       `json:"product_name"`
	Type          MovementType `json:"movement_type"`
	Quantity      int          `json:"quantity"`
	Reason        string       `json:"reason"`
	StockQuantity int          `json:"stock_quantity"`
	Status        StockStatus  `json:"status"`
	RecordedAt    time.Time    `json:"recorded_at"`
}
