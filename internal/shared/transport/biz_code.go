package transport

// BizCode is the typed response code written into access logs.
type BizCode int

// 0 is success, 1..499 rejected requests (warn), >=500 system failures (error).
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	Conflict     = 409
	SystemError  = 500
	Timeout      = 504
)

// Response is the JSON envelope of every HTTP/WS reply.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: OK, Data: data}
}

func Failure(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}
