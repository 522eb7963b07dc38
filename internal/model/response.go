package model

// Stable machine-readable error tags. Clients branch on these, never on the
// human-readable message.
const (
	StatusBadRequest   = "BAD_REQUEST"
	StatusUnauthorized = "UNAUTHORIZED"
	StatusForbidden    = "FORBIDDEN"
	StatusNotFound     = "NOT_FOUND"
	StatusInternal     = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the structured error information returned by the API. Code
// is the HTTP status; Status is the stable tag from the constants above.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SuccessResponse is the envelope for mutations that return no resource body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CreatedResponse is the envelope for mutations that create a new resource.
type CreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}
