// Package repository defines the storage contract for diary entries.
//
// The service layer depends on DiaryRepository, never on a concrete store.
// Two implementations exist: memory.Store (the default, a mutex-guarded
// slice) and sqlite.DB. Both hand out copies, so callers can never change
// stored entries through a returned value.
package repository

import (
	"context"

	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/query"
)

type DiaryRepository interface {
	// Create assigns a new ID and stores the entry. CreatedAt and UpdatedAt
	// are set to now unless CreatedAt is already set (seed import).
	Create(ctx context.Context, diary *model.Diary) error

	// GetByID returns apperror.ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*model.Diary, error)

	// Query evaluates p against the whole collection as one indivisible read.
	Query(ctx context.Context, p query.Params) (query.Result, error)

	// UpdateText replaces the text and refreshes UpdatedAt. ID, CreatedAt and
	// ImageURL are left untouched.
	UpdateText(ctx context.Context, id, text string) (*model.Diary, error)

	// Delete removes the entry and returns it so the caller can release its
	// image. The id is never handed out again.
	Delete(ctx context.Context, id string) (*model.Diary, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
