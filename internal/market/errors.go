package market

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is the sentinel wrapped by every DataUnavailableError.
var ErrDataUnavailable = errors.New("market data unavailable")

// DataUnavailableError reports that the backing store was unreachable or
// returned a malformed result set for one source. The pipeline surfaces it
// as an empty series with a disclosed reason, never as stale data.
type DataUnavailableError struct {
	Source Source
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s data unavailable: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataUnavailable) match regardless of source.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func unavailable(source Source, err error) error {
	return &DataUnavailableError{Source: source, Err: err}
}
