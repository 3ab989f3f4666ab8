// Package model defines the data structures used throughout the application.
package model

import "time"

// Diary is a single short diary entry.
//
// Text may carry inline markup (<b>, <span style="...">), emoji, or kaomoji;
// it is replaced wholesale on update. ImageURL points at a blob owned by the
// blob store and is fixed at creation. UpdatedAt equals CreatedAt until the
// first successful text update.
type Diary struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasImage reports whether the entry references an uploaded image.
func (d Diary) HasImage() bool {
	return d.ImageURL != ""
}
