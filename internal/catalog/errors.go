package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable wraps transport failures: DNS, refused connections, timeouts.
	ErrUnreachable = errors.New("catalog unreachable")

	// ErrSchemaMismatch is returned when a 2xx body does not decode into the expected shape.
	ErrSchemaMismatch = errors.New("catalog response does not match schema")
)

// StatusError is returned for non-2xx catalog responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsNotFound reports whether err is a 404 from the catalog.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
