package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MerchantID is the single merchant this deployment serves.
const MerchantID int64 = 1

type Category string

const (
	CategoryFood     Category = "food"
	CategoryClothing Category = "clothing"
)

func (c Category) Valid() bool { return c == CategoryFood || c == CategoryClothing }

type Language string

const (
	LangArabic  Language = "ar"
	LangEnglish Language = "en"
)

func (l Language) Valid() bool { return l == LangArabic || l == LangEnglish }

type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status an order may hold, in lifecycle order.
var Statuses = []Status{StatusNew, StatusProcessing, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

var (
	ErrInvalidStatus  = errors.New("invalid status")
	ErrMissingField   = errors.New("missing required field")
	ErrUnexpectedSize = errors.New("size only applies to clothing")
)

// Order is a committed customer request as stored.
type Order struct {
	ID           int64     `json:"id"`
	Category     Category  `json:"category"`
	Product      string    `json:"product"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Quantity     string    `json:"quantity"`
	Size         string    `json:"size"`
	Language     Language  `json:"language"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	MerchantID   int64     `json:"merchant_id"`
}

// NewOrder carries the fields a finished conversation hands to the repository.
// Status, timestamp and merchant are assigned on insert.
type NewOrder struct {
	Category     Category
	Product      string
	CustomerName string
	Phone        string
	Address      string
	Quantity     string
	Size         string
	Language     Language
}

// Validate checks required fields and the size/category coupling.
func (o NewOrder) Validate() error {
	if !o.Category.Valid() {
		return fmt.Errorf("%w: category", ErrMissingField)
	}
	if !o.Language.Valid() {
		return fmt.Errorf("%w: language", ErrMissingField)
	}
	required := []struct{ name, val string }{
		{"product", o.Product},
		{"customer_name", o.CustomerName},
		{"phone", o.Phone},
		{"address", o.Address},
		{"quantity", o.Quantity},
	}
	for _, f := range required {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	size := strings.TrimSpace(o.Size)
	switch o.Category {
	case CategoryClothing:
		if size == "" {
			return fmt.Errorf("%w: size", ErrMissingField)
		}
	case CategoryFood:
		if size != "" {
			return ErrUnexpectedSize
		}
	}
	return nil
}
