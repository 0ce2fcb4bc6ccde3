// Package dto defines the wire envelope and error vocabulary of the HTTP API.
package dto

// Response is the envelope every endpoint returns. Exactly one of Data and
// Error is set.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries the wire error code and, when available, the request ID
// so a client report can be matched to the server logs.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponseWithRequestID builds an error envelope tagged with the
// request ID.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// IDRequest binds a uuid path parameter.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
