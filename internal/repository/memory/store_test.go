package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/query"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestStore returns a store whose clock advances one minute per call.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	clock := time.Date(2025, 9, 28, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func mustCreate(t *testing.T, s *Store, text string) *model.Diary {
	t.Helper()
	d := &model.Diary{Text: text}
	require.NoError(t, s.Create(context.Background(), d))
	return d
}

func TestCreate(t *testing.T) {
	s := newTestStore(t)

	d := mustCreate(t, s, "hello")

	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreate_KeepsPresetTimestamp(t *testing.T) {
	s := newTestStore(t)
	preset := time.Date(2025, 9, 24, 7, 30, 0, 0, time.UTC)

	d := &model.Diary{Text: "seeded", CreatedAt: preset}
	require.NoError(t, s.Create(context.Background(), d))

	assert.Equal(t, preset, d.CreatedAt)
	assert.Equal(t, preset, d.UpdatedAt)
}

func TestCreate_UniqueIDs(t *testing.T) {
	s := newTestStore(t)
	seen := make(map[string]bool)

	for i := range 50 {
		d := mustCreate(t, s, fmt.Sprintf("entry %d", i))
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
	}
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "find me")

	got, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestGetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "original")

	got, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	got.Text = "tampered"

	again, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Text)
}

func TestUpdateText(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "before")

	updated, err := s.UpdateText(context.Background(), created.ID, "after")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "after", updated.Text)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	got, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)
}

func TestUpdateText_KeepsImage(t *testing.T) {
	s := newTestStore(t)
	d := &model.Diary{Text: "with image", ImageURL: "/uploads/a.png"}
	require.NoError(t, s.Create(context.Background(), d))

	updated, err := s.UpdateText(context.Background(), d.ID, "new text")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", updated.ImageURL)
}

func TestUpdateText_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateText(context.Background(), "missing", "text")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	keep := mustCreate(t, s, "keep")
	gone := mustCreate(t, s, "gone")

	removed, err := s.Delete(context.Background(), gone.ID)
	require.NoError(t, err)
	assert.Equal(t, gone.ID, removed.ID)

	_, err = s.GetByID(context.Background(), gone.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = s.GetByID(context.Background(), keep.ID)
	assert.NoError(t, err)

	_, err = s.Delete(context.Background(), gone.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "second delete must report not found")
}

func TestQuery_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	first := mustCreate(t, s, "first")
	second := mustCreate(t, s, "second")
	third := mustCreate(t, s, "third")

	res, err := s.Query(context.Background(), query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Items, 3)
	assert.Equal(t, third.ID, res.Items[0].ID)
	assert.Equal(t, second.ID, res.Items[1].ID)
	assert.Equal(t, first.ID, res.Items[2].ID)
	assert.Equal(t, 3, res.Pagination.Total)
	assert.Equal(t, 1, res.Pagination.TotalPages)
}

func TestQuery_ResultIsDetached(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "stored")

	res, err := s.Query(context.Background(), query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	res.Items[0].Text = "tampered"

	again, err := s.Query(context.Background(), query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "stored", again.Items[0].Text)
}

// TestConcurrentAccess hammers the store from many goroutines. Run with -race.
func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()

	const writers = 8
	const perWriter = 25

	g, ctx := errgroup.WithContext(ctx)
	for w := range writers {
		g.Go(func() error {
			for i := range perWriter {
				d := &model.Diary{Text: fmt.Sprintf("w%d-%d", w, i)}
				if err := s.Create(ctx, d); err != nil {
					return err
				}
				if i%5 == 0 {
					if _, err := s.UpdateText(ctx, d.ID, d.Text+" edited"); err != nil {
						return err
					}
				}
			}
			return nil
		})
		g.Go(func() error {
			for range perWriter {
				res, err := s.Query(ctx, query.Params{Page: 1, Limit: 20})
				if err != nil {
					return err
				}
				if len(res.Items) > res.Pagination.Total {
					return fmt.Errorf("page has %d items but total is %d", len(res.Items), res.Pagination.Total)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, n)
}
