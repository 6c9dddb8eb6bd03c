package inflation

import (
	"errors"
	"fmt"
)

// Sentinel errors for calculation failures. Callers match them with errors.Is.
var (
	ErrDateNotFound    = errors.New("date not found")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidRate     = errors.New("invalid rate")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidRateType = errors.New("invalid rate type")
	ErrInvalidCurrency = errors.New("invalid currency")
)

// DateNotFoundError identifies the missing date and the series it was looked up in.
type DateNotFoundError struct {
	Date   string
	Series string
}

func (e *DateNotFoundError) Error() string {
	return fmt.Sprintf("date %s not found in series %s", e.Date, e.Series)
}

// Is makes errors.Is(err, ErrDateNotFound) match.
func (e *DateNotFoundError) Is(target error) bool {
	return target == ErrDateNotFound
}

func dateNotFound(date, series string) error {
	return &DateNotFoundError{Date: date, Series: series}
}
