package serverutils

type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Missing []string    `json:"missing,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{Success: true, Code: 200, Message: message, Data: data}
}

// ErrorResponse keeps "error" alongside "message"; older clients read it.
func ErrorResponse(code int, message string) Response {
	return Response{Success: false, Code: code, Message: message, Error: message}
}
