package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/mini-diary/internal/apperror"
)

// DateLayout is the calendar-day format used by the startDate and endDate
// query parameters.
const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the client-facing bounds: page >= 1 and 1 <= limit <= 100.
// The first violation is returned as a validation error naming the field.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return formatFieldError(fieldErrs[0])
	}
	return fmt.Errorf("validating query params: %w", err)
}

func formatFieldError(e validator.FieldError) error {
	field := strings.ToLower(e.Field())

	switch field {
	case "page":
		return apperror.ValidationFailed(field, "page must be a number greater than or equal to 1")
	case "limit":
		return apperror.ValidationFailed(field, fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	default:
		return apperror.ValidationFailed(field, fmt.Sprintf("%s is invalid", field))
	}
}

// ParseValues reads page, limit, search, startDate and endDate from a URL
// query string. Missing values take their defaults; malformed numbers or
// dates are validation errors. Dates are interpreted in loc.
//
// The returned Params have not been range-checked; call Validate.
func ParseValues(values url.Values, loc *time.Location) (Params, error) {
	p := Params{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Search: values.Get("search"),
	}

	if s := values.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return p, apperror.ValidationFailed("page", "page must be a number greater than or equal to 1")
		}
		p.Page = page
	}

	if s := values.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return p, apperror.ValidationFailed("limit", fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
		}
		p.Limit = limit
	}

	var err error
	if p.StartDate, err = parseDateParam(values, "startDate", loc); err != nil {
		return p, err
	}
	if p.EndDate, err = parseDateParam(values, "endDate", loc); err != nil {
		return p, err
	}

	return p, nil
}

func parseDateParam(values url.Values, key string, loc *time.Location) (*time.Time, error) {
	s := values.Get(key)
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s, loc)
	if err != nil {
		return nil, apperror.ValidationFailed(key, fmt.Sprintf("%s must be a date like 2025-09-28", key))
	}
	return &t, nil
}

// ParseDate accepts a calendar day ("2025-09-28", read in loc) or a full
// RFC 3339 timestamp, which keeps its own offset.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
