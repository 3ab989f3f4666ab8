// Package memory implements repository.DiaryRepository on a plain slice.
//
// CONCURRENCY:
// One sync.RWMutex covers the whole collection. Writes (Create, UpdateText,
// Delete) take the write lock; GetByID, Query and Count take the read lock
// for their full duration, so a query never observes half of a mutation.
// There is no finer-grained locking.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/query"
	"github.com/sakif/mini-diary/internal/repository"
)

var _ repository.DiaryRepository = (*Store)(nil)

// Store keeps diaries in insertion order. The zero value is not usable; call
// New.
type Store struct {
	mu      sync.RWMutex
	diaries []model.Diary
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Create(_ context.Context, diary *model.Diary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	diary.ID = xid.New().String()
	if diary.CreatedAt.IsZero() {
		diary.CreatedAt = s.now()
	}
	if diary.UpdatedAt.Before(diary.CreatedAt) {
		diary.UpdatedAt = diary.CreatedAt
	}

	s.diaries = append(s.diaries, *diary)
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*model.Diary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("diary", id)
	}
	found := s.diaries[i]
	return &found, nil
}

func (s *Store) Query(_ context.Context, p query.Params) (query.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.Run(s.diaries, p), nil
}

func (s *Store) UpdateText(_ context.Context, id, text string) (*model.Diary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("diary", id)
	}

	d := &s.diaries[i]
	d.Text = text
	d.UpdatedAt = s.now()
	if d.UpdatedAt.Before(d.CreatedAt) {
		d.UpdatedAt = d.CreatedAt
	}

	updated := *d
	return &updated, nil
}

func (s *Store) Delete(_ context.Context, id string) (*model.Diary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("diary", id)
	}

	removed := s.diaries[i]
	s.diaries = slices.Delete(s.diaries, i, i+1)
	return &removed, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.diaries), nil
}

// indexOf returns the slice index of id, or -1. Callers must hold mu.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.diaries, func(d model.Diary) bool {
		return d.ID == id
	})
}
