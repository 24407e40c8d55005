package serverutils

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorResponseWithKind carries a machine readable error kind, e.g. ALREADY_VOTED.
func ErrorResponseWithKind(code int, kind, message string) BaseResponse[any] {
	res := ErrorResponse(code, message)
	res.Error = kind
	return res
}
