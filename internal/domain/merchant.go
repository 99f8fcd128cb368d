package domain

import "time"

type Merchant struct {
	ID           int64     `json:"id"`
	ExternalID   int64     `json:"external_id"`
	Username     string    `json:"username"`
	BusinessName string    `json:"business_name"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admin is the panel operator bound to a session.
type Admin struct {
	Username string
}
