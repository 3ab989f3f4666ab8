// Package query evaluates list requests against a diary collection.
//
// Run is a pure function: it receives the collection in insertion order and
// returns a filtered, ordered, paginated copy. It never mutates its input, so
// any number of readers may call it concurrently over the same snapshot.
//
// EVALUATION ORDER:
//  1. search filter (case-folded substring match on Text)
//  2. start date filter (createdAt >= start of that day)
//  3. end date filter (createdAt <= 23:59:59.999 of that day)
//  4. stable sort, newest first
//  5. totals
//  6. page slice
package query

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/sakif/mini-diary/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params are the list options accepted from a client.
//
// StartDate and EndDate only contribute their calendar day (in their own
// location); the time of day is replaced by the start or end of that day.
type Params struct {
	Page      int        `validate:"min=1"`
	Limit     int        `validate:"min=1,max=100"`
	Search    string     `validate:"-"`
	StartDate *time.Time `validate:"-"`
	EndDate   *time.Time `validate:"-"`
}

// Pagination describes where a page sits in the filtered result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result is one page of diaries plus its pagination metadata.
type Result struct {
	Items      []model.Diary `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// normalized fills in defaults for a zero or negative page and limit so Run
// stays total even when called without Validate.
func (p Params) normalized() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// Run applies p to entries, which must be in insertion order.
func Run(entries []model.Diary, p Params) Result {
	p = p.normalized()

	filtered := make([]model.Diary, 0, len(entries))
	match := matcher(p)
	for _, d := range entries {
		if match(d) {
			filtered = append(filtered, d)
		}
	}

	// SortStableFunc keeps insertion order among equal timestamps, which is
	// the only tie-breaker defined for the listing.
	slices.SortStableFunc(filtered, func(a, b model.Diary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(filtered)
	totalPages := TotalPages(total, p.Limit)

	// The range check runs on page numbers, before any multiplication, so a
	// huge page cannot overflow the offset back into range.
	page := make([]model.Diary, 0, min(p.Limit, total))
	if p.Page <= totalPages {
		offset := Offset(p.Page, p.Limit)
		end := min(offset+p.Limit, total)
		page = append(page, filtered[offset:end]...)
	}

	return Result{
		Items: page,
		Pagination: Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// matcher builds the combined filter predicate for p.
func matcher(p Params) func(model.Diary) bool {
	var needle string
	// A Caser is stateful; each Run gets its own.
	folder := cases.Fold()
	if p.Search != "" {
		needle = folder.String(p.Search)
	}

	var start, end time.Time
	if p.StartDate != nil {
		start = StartOfDay(*p.StartDate)
	}
	if p.EndDate != nil {
		end = EndOfDay(*p.EndDate)
	}

	return func(d model.Diary) bool {
		if needle != "" && !strings.Contains(folder.String(d.Text), needle) {
			return false
		}
		if p.StartDate != nil && d.CreatedAt.Before(start) {
			return false
		}
		if p.EndDate != nil && d.CreatedAt.After(end) {
			return false
		}
		return true
	}
}

// Offset returns the zero-based index of the first item on a 1-based page.
// Callers must check page against TotalPages first; for pages far past the
// end the product overflows.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages returns ceil(total / limit), and 0 for an empty result.
func TotalPages(total, limit int) int {
	if total == 0 || limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
