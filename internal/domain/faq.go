package domain

import "time"

// FAQ is a published question/answer entry.
type FAQ struct {
	ID        string
	Question  string
	Answer    string
	Tags      string
	Category  string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
