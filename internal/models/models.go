package models

import "time"

// RecyclingPoint represents a physical recycling location identified by a
// scannable code. Points are owned by the directory store and read-only here.
type RecyclingPoint struct {
	Code        string  `json:"code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
}

// RecyclingRequest represents one user's material drop-off, tracked through
// a status lifecycle. Requests are never deleted; terminal states are kept
// for history.
type RecyclingRequest struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	MaterialType string        `json:"material_type"`
	QuantityKg   float64       `json:"quantity_kg"`
	PhotoURL     string        `json:"photo_url"`
	Description  string        `json:"description"`
	RewardPoints int           `json:"reward_points"`
	Status       RequestStatus `json:"status"`
	RequestTime  time.Time     `json:"request_time"`
	UpdateTime   *time.Time    `json:"update_time,omitempty"`
}

// UserAccount represents a user in the system. PointsBalance is mutated
// exclusively by the reward ledger.
type UserAccount struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	PointsBalance int       `json:"points_balance"`
	Token         string    `json:"token,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RewardCatalogEntry represents a reward users can exchange points for.
// Static reference data.
type RewardCatalogEntry struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	PointsRequired int    `json:"points_required"`
}
