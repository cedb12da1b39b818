package models

import "time"

// JSON keys follow the storefront contract: the client reads the column
// names the old backend returned verbatim.

type User struct {
	ID           int64     `json:"ID"`
	FirstName    string    `json:"FirstName" validate:"required"`
	LastName     string    `json:"LastName" validate:"required"`
	MiddleName   string    `json:"MiddleName"`
	Email        string    `json:"Email" validate:"required,email"`
	Password     string    `json:"Password" validate:"required"`
	Address      string    `json:"Address"`
	City         string    `json:"City"`
	Telephone    string    `json:"Telephone"`
	RegisterDate time.Time `json:"RegisterDate"`
	LastActivity time.Time `json:"LastActivity"`
	// UserType 1 is a regular account, 0 an editor allowed to manage the catalog.
	UserType int `json:"UserType"`
}

type Book struct {
	ID           int64     `json:"ID"`
	Name         string    `json:"Name" validate:"required"`
	Author       string    `json:"Author" validate:"required"`
	Category     string    `json:"Category"`
	Publisher    string    `json:"Publisher"`
	ImagePath    string    `json:"ImagePath"`
	Description  string    `json:"Description"`
	City         string    `json:"City"`
	Address      string    `json:"Address"`
	BookStore    string    `json:"BookStore"`
	OldPrice     float64   `json:"OldPrice"`
	Price        float64   `json:"Price"`
	VisitedCount int64     `json:"VisitedCount"`
	DateAdded    time.Time `json:"DateAdded"`
}

// SearchFilter carries the /search-books query knobs. BookStore and City
// use "1" as the storefront's "any" sentinel.
type SearchFilter struct {
	Query     string
	BookStore string
	City      string
	Sort      string
}

type Vote struct {
	UserID int64 `json:"userId" validate:"required"`
	BookID int64 `json:"bookId" validate:"required"`
	Vote   int   `json:"vote" validate:"required,gte=1,lte=5"`
}

// RatedBook is the highest-rated-book projection. AverageVote is nil for a
// book that has never been voted on.
type RatedBook struct {
	ID          int64    `json:"ID"`
	Name        string   `json:"Name"`
	ImagePath   string   `json:"ImagePath"`
	Description string   `json:"Description"`
	AverageVote *float64 `json:"AverageVote"`
}

// OrderItem is one line of an order as the client submits it.
type OrderItem struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

// Order keeps the line items as the serialized blob they are stored as; the
// total is the client-computed snapshot, never recomputed server-side.
type Order struct {
	ID         int64     `json:"ID"`
	UserID     int64     `json:"UserID"`
	Books      string    `json:"Books"`
	TotalPrice float64   `json:"TotalPrice"`
	CreatedAt  time.Time `json:"CreatedAt"`
	// Name is the buyer's display name, filled by the orders listing join.
	Name string `json:"Name,omitempty"`
}
