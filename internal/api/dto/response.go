package dto

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors"`
}

// OK wraps data in a successful envelope.
func OK(data any, message string) Response {
	return Response{Success: true, Message: message, Data: data, Errors: []string{}}
}

// Fail builds a failed envelope.
func Fail(message string, errs []string) Response {
	if errs == nil {
		errs = []string{}
	}
	return Response{Success: false, Message: message, Errors: errs}
}
