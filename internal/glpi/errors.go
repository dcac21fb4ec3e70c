package glpi

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-success HTTP status from the GLPI API. The remote payload
// is carried verbatim, not reinterpreted.
type APIError struct {
	Op         string
	StatusCode int
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("glpi %s: upstream returned status %d", e.Op, e.StatusCode)
}

// TransportError is a network-level failure reaching the GLPI API: connection
// refused, timeout, DNS failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("glpi %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
