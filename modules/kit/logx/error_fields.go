package logx

import (
	"errors"
	"runtime"
	"strconv"

	"go.uber.org/zap"
)

type codeTextProvider interface {
	CodeText() string
}

type stackProvider interface {
	Stack() []uintptr
}

// ErrorFields expands err into structured fields: the message, the first
// code found in the chain and, for system errors, the origin frame.
func ErrorFields(err error) []zap.Field {
	if err == nil {
		return nil
	}
	fields := []zap.Field{zap.Error(err)}
	var cp codeTextProvider
	if errors.As(err, &cp) {
		fields = append(fields, zap.String("code", cp.CodeText()))
	}
	var sp stackProvider
	if errors.As(err, &sp) {
		if origin := originFrame(sp.Stack()); origin != "" {
			fields = append(fields, zap.String("origin", origin))
		}
	}
	return fields
}

func originFrame(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	if frame.Function == "" {
		return ""
	}
	return frame.Function + " " + frame.File + ":" + strconv.Itoa(frame.Line)
}
