package serverutils

// Response is the JSON envelope every REST endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func SuccessResponse(message string, data interface{}) *Response {
	return &Response{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *Response {
	return &Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorResponseWithData is ErrorResponse carrying a payload, used when the
// client still needs the rendered events of a failed action.
func ErrorResponseWithData(code int, message string, data interface{}) *Response {
	res := ErrorResponse(code, message)
	res.Data = data
	return res
}
