package plannersdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is returned when the service answers with a non-success
// status. Code and Description come from the error envelope when the
// body carried one.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsRateLimited reports whether err is an APIError for a 429 response.
func IsRateLimited(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusTooManyRequests
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error
		apiErr.Description = envelope.ErrorDescription
	}
	return apiErr
}
