package logx

import (
	"errors"
	"testing"

	"Automancy/modules/kit/errx"
)

func TestErrorFields(t *testing.T) {
	if ErrorFields(nil) != nil {
		t.Fatalf("nil error must produce no fields")
	}

	plain := ErrorFields(errors.New("boom"))
	if len(plain) != 1 {
		t.Fatalf("plain error fields=%d want 1", len(plain))
	}

	sys := errx.NewSys("SYS_X", "x").WithCause(errors.New("io"))
	fields := ErrorFields(sys)
	var code, origin bool
	for _, f := range fields {
		switch f.Key {
		case "code":
			code = f.String == "SYS_X"
		case "origin":
			origin = f.String != ""
		}
	}
	if !code || !origin {
		t.Fatalf("expected code and origin fields, got %+v", fields)
	}
}
