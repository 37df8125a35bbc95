package api

import "github.com/danielgtaylor/huma/v2"

// ErrorModel is the wire error shape: {"error": "..."}. The original
// consumers of this API expect that exact field name, so it replaces Huma's
// default problem+json model.
type ErrorModel struct {
	Message string `json:"error" doc:"Error message" example:"Farm not found"`

	status int
}

func (e *ErrorModel) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorModel) GetStatus() int {
	return e.status
}

// ContentType keeps error responses as plain application/json.
func (e *ErrorModel) ContentType(ct string) string {
	if ct == "application/problem+json" {
		return "application/json"
	}
	return ct
}

// UseCompatErrors installs the compat error shape for all Huma-produced
// errors. Call once before registering routes.
func UseCompatErrors() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		if message == "" && len(errs) > 0 {
			message = errs[0].Error()
		}
		return &ErrorModel{Message: message, status: status}
	}
}
