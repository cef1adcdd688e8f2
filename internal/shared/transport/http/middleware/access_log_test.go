package middleware

import "testing"

func TestParseBizCode(t *testing.T) {
	cases := []struct {
		body string
		code int
		ok   bool
	}{
		{`{"code":404,"msg":"x"}`, 404, true},
		{`{"status":"ok"}`, 0, false},
		{`not json`, 0, false},
		{``, 0, false},
	}
	for _, tc := range cases {
		code, ok := parseBizCode([]byte(tc.body))
		if code != tc.code || ok != tc.ok {
			t.Fatalf("parseBizCode(%q)=%d,%v want %d,%v", tc.body, code, ok, tc.code, tc.ok)
		}
	}
}
