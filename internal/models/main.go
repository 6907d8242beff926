// Package models defines the core data structures for user accounts,
// restaurant records and search results.
package models

import (
	"errors"
	"strconv"
)

var (
	// ErrUserNotFound is returned when no account matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an account with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// User represents a registered application user.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name given at signup.
	Name string `json:"name"`
	// Email is the login identifier, unique across users.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`
}

// Restaurant is one row of the restaurant dataset.
type Restaurant struct {
	// Name of the restaurant. Empty means the cell was missing.
	Name string
	// Cuisine is a free-form, usually comma separated, list of cuisines.
	Cuisine string
	// Price is the raw price text as it appears in the dataset.
	Price string
	// PriceCleaned holds the digits of Price as an integer, 0 when there are none.
	PriceCleaned int64
	// Ratings is the numeric rating; valid only when HasRatings is true.
	Ratings float64
	// HasRatings reports whether the ratings cell parsed as a number.
	HasRatings bool
	// RatingsText is the textual form used for ratings search. Empty means missing.
	RatingsText string
	// Link is the URL of the restaurant page.
	Link string
}

// Recommendation is the projection of a Restaurant returned by a search.
// Ratings is nil when the cell is missing or not a number; RatingsText then
// carries the raw text of a non-numeric cell.
type Recommendation struct {
	Link        string   `json:"link"`
	Name        string   `json:"name"`
	Ratings     *float64 `json:"ratings"`
	RatingsText string   `json:"ratings_text,omitempty"`
	Cuisine     string   `json:"cuisine"`
	Price       string   `json:"price"`
}

// RatingLabel returns the rating as shown to users, "n/a" when it is missing.
func (r Recommendation) RatingLabel() string {
	switch {
	case r.Ratings != nil:
		return strconv.FormatFloat(*r.Ratings, 'f', -1, 64)
	case r.RatingsText != "":
		return r.RatingsText
	default:
		return "n/a"
	}
}

// Recommend projects the restaurant to the fields shown to users.
func (r Restaurant) Recommend() Recommendation {
	rec := Recommendation{
		Link:    r.Link,
		Name:    r.Name,
		Cuisine: r.Cuisine,
		Price:   r.Price,
	}
	if r.HasRatings {
		v := r.Ratings
		rec.Ratings = &v
	} else {
		rec.RatingsText = r.RatingsText
	}
	return rec
}
