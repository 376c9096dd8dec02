package okx

import "fmt"

// APIError is returned when the exchange answers with a non-success business
// code. The HTTP exchange itself succeeded; the request was rejected.
type APIError struct {
	Op   string
	Code string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okx: %s rejected (code %s): %s", e.Op, e.Code, e.Msg)
}

// BrokenResponseError is returned when the exchange reports success but the
// payload is missing the records the operation requires. It is kept distinct
// from APIError so callers can in principle tell a malformed payload from a
// rejected request; current callers only log both.
type BrokenResponseError struct {
	Op   string
	Body string
}

func (e *BrokenResponseError) Error() string {
	return fmt.Sprintf("okx: broken response from %s: %s", e.Op, e.Body)
}
