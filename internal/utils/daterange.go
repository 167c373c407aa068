package utils

import (
	"errors"
	"net/url"
	"time"
)

var ErrInvalidDateRange = errors.New("date_from must not be after date_to")

// DateRange is an optional inclusive [From, To] window over motion
// submission dates. A nil bound is open-ended.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange reads date_from / date_to query parameters (YYYY-MM-DD).
// An inverted range is rejected; missing parameters leave the bound open.
func ParseDateRange(q url.Values) (DateRange, error) {
	var r DateRange

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return DateRange{}, errors.New("invalid date_from: expected YYYY-MM-DD")
		}
		r.From = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return DateRange{}, errors.New("invalid date_to: expected YYYY-MM-DD")
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Contains reports whether t falls inside the range, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}
