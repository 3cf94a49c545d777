package hubspot

import (
	"encoding/json"
	"fmt"
)

// DuplicateGroupError reports an AddGroup call with a name that is already
// registered.
type DuplicateGroupError struct {
	Name string
}

func (e *DuplicateGroupError) Error() string {
	return fmt.Sprintf("property group %q is already registered", e.Name)
}

// DuplicateNameError reports an AddProperty call with a property name that
// is already registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("property %q is already registered", e.Name)
}

// UnknownGroupError reports an AddProperty call referencing a group that
// was never registered.
type UnknownGroupError struct {
	Group    string
	Property string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("property %q references unknown group %q", e.Property, e.Group)
}

// MissingOptionsError reports an AddProperty call with an enumeration
// property that has no options. HubSpot rejects enumeration creation
// payloads without them.
type MissingOptionsError struct {
	Name string
}

func (e *MissingOptionsError) Error() string {
	return fmt.Sprintf("enumeration property %q has no options", e.Name)
}

// Standard HubSpot error categories.
const (
	CategoryValidationError = "VALIDATION_ERROR"
	CategoryObjectNotFound  = "OBJECT_NOT_FOUND"
	CategoryConflict        = "CONFLICT"
	CategoryRateLimits      = "RATE_LIMITS"
)

// APIError is a non-2xx response from the HubSpot API. The embedded fields
// mirror HubSpot's error body when one was returned; Body always carries
// the raw response for anything the caller needs beyond that.
type APIError struct {
	StatusCode    int
	Status        string
	Message       string
	CorrelationID string
	Category      string
	Body          []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hubspot: %d %s: %s", e.StatusCode, e.Category, e.Message)
	}
	return fmt.Sprintf("hubspot: unexpected status %d", e.StatusCode)
}

// newAPIError parses a HubSpot error body. A body that is not the standard
// error shape is kept raw and otherwise ignored.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: body}

	var wire struct {
		Status        string `json:"status"`
		Message       string `json:"message"`
		CorrelationID string `json:"correlationId"`
		Category      string `json:"category"`
	}
	if err := json.Unmarshal(body, &wire); err == nil {
		apiErr.Status = wire.Status
		apiErr.Message = wire.Message
		apiErr.CorrelationID = wire.CorrelationID
		apiErr.Category = wire.Category
	}
	return apiErr
}
