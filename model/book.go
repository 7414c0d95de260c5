// model/book.go
package model

import "time"

type Book struct {
	ID          int64          `json:"id"`
	Name        string         `json:"book_name"`
	OwnerID     int64          `json:"owner_id"`
	Author      string         `json:"author"`
	Category    string         `json:"category"`
	Quantity    int64          `json:"quantity"`
	RentPrice   float64        `json:"rent_price"`
	CoverURL    *string        `json:"cover_photo_url,omitempty"`
	Status      ApprovalStatus `json:"status"`
	IsAvailable bool           `json:"is_available"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BookFilter is a composable filter over book listings. Nil fields are
// skipped. Global matches book name, author and category (and, on listings
// that join the owner, owner email and location) case-insensitively.
type BookFilter struct {
	ID            *int64
	Name          *string
	Author        *string
	Category      *string
	Quantity      *int64
	RentPrice     *float64
	OwnerEmail    *string
	OwnerLocation *string
	Global        *string
}

// ListedBook is a book joined with its owner for the admin all-books view.
type ListedBook struct {
	Book
	OwnerEmail    string `json:"owner_email"`
	OwnerLocation string `json:"owner_location"`
}

// CategoryCount is one bucket of the free-book summaries.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
