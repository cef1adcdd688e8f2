package errx

// System codes shared by every package. Domain codes live next to the domain.
const (
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeTimeout       Code = "TIMEOUT"
	CodeReqParamError Code = "REQ_PARAM_ERROR"
	CodeConfig        Code = "CONFIG_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "internal error")
	ErrUnavailable = NewSys(CodeUnavailable, "service unavailable")
	ErrTimeout     = NewSys(CodeTimeout, "request timed out")
	ErrReqParamERR = NewBiz(CodeReqParamError, "invalid request parameter")
	ErrConfig      = NewSys(CodeConfig, "invalid configuration")
)
