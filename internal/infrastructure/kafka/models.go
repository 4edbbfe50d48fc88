package kafka

import "time"

const eventTypeRecommendationServed = "recommendation.served"

// recommendationServedMessage: JSON-представление события в топике.
type recommendationServedMessage struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	UserID     int64     `json:"user_id"`
	Variant    string    `json:"variant"`
	ProductIDs []int64   `json:"product_ids"`
	Scores     []float64 `json:"scores"`
	ServedAt   time.Time `json:"served_at"`
}
