package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/query"
	"github.com/sakif/mini-diary/internal/repository"
)

var _ repository.DiaryRepository = (*DB)(nil)

// now is swapped in tests.
var now = time.Now

const diaryColumns = `id, text, image_url, created_at, updated_at`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDiary(row scanner) (model.Diary, error) {
	var (
		d                model.Diary
		created, updated int64
	)
	if err := row.Scan(&d.ID, &d.Text, &d.ImageURL, &created, &updated); err != nil {
		return model.Diary{}, err
	}
	d.CreatedAt = time.Unix(0, created).UTC()
	d.UpdatedAt = time.Unix(0, updated).UTC()
	return d, nil
}

// Create inserts diary. The caller's struct receives the generated ID and the
// timestamps that were stored.
func (db *DB) Create(ctx context.Context, diary *model.Diary) error {
	diary.ID = xid.New().String()
	if diary.CreatedAt.IsZero() {
		diary.CreatedAt = now()
	}
	if diary.UpdatedAt.Before(diary.CreatedAt) {
		diary.UpdatedAt = diary.CreatedAt
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO diaries (id, text, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		diary.ID,
		diary.Text,
		diary.ImageURL,
		diary.CreatedAt.UnixNano(),
		diary.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating diary: %w", err)
	}
	return nil
}

func (db *DB) GetByID(ctx context.Context, id string) (*model.Diary, error) {
	d, err := scanDiary(db.conn.QueryRowContext(ctx,
		`SELECT `+diaryColumns+` FROM diaries WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("diary", id)
		}
		return nil, fmt.Errorf("sqlite: getting diary %s: %w", id, err)
	}
	return &d, nil
}

// Query loads the collection in insertion order and hands it to query.Run.
//
// WHY NOT SQL FILTERING?
// Search is a Unicode case-folded substring match and the date bounds depend
// on the caller's location. Running the shared evaluator over the loaded rows
// keeps both stores returning byte-identical results for the same request.
func (db *DB) Query(ctx context.Context, p query.Params) (query.Result, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+diaryColumns+` FROM diaries ORDER BY seq`)
	if err != nil {
		return query.Result{}, fmt.Errorf("sqlite: listing diaries: %w", err)
	}
	defer rows.Close()

	var all []model.Diary
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return query.Result{}, fmt.Errorf("sqlite: scanning diary row: %w", err)
		}
		all = append(all, d)
	}
	if err := rows.Err(); err != nil {
		return query.Result{}, fmt.Errorf("sqlite: iterating diaries: %w", err)
	}

	return query.Run(all, p), nil
}

// UpdateText sets the text and refreshes updated_at in one statement.
// RETURNING hands back the stored row, so no second SELECT is needed.
func (db *DB) UpdateText(ctx context.Context, id, text string) (*model.Diary, error) {
	d, err := scanDiary(db.conn.QueryRowContext(ctx,
		`UPDATE diaries
		 SET text = ?, updated_at = MAX(created_at, ?)
		 WHERE id = ?
		 RETURNING `+diaryColumns,
		text, now().UnixNano(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("diary", id)
		}
		return nil, fmt.Errorf("sqlite: updating diary %s: %w", id, err)
	}
	return &d, nil
}

func (db *DB) Delete(ctx context.Context, id string) (*model.Diary, error) {
	d, err := scanDiary(db.conn.QueryRowContext(ctx,
		`DELETE FROM diaries WHERE id = ? RETURNING `+diaryColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("diary", id)
		}
		return nil, fmt.Errorf("sqlite: deleting diary %s: %w", id, err)
	}
	return &d, nil
}

func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM diaries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting diaries: %w", err)
	}
	return n, nil
}
