package ws

import (
	"encoding/json"
	"fmt"
	"testing"
)

// pair has its own wire form, like a hex coordinate.
type pair struct{ A, B int32 }

func (p *pair) UnmarshalJSON(b []byte) error {
	var v [2]int32
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.A, p.B = v[0], v[1]
	return nil
}

type BindCommon struct {
	ID     string `json:"id"`
	Record *bool  `json:"record"`
}

type bindOuter struct {
	At       pair   `json:"at"`
	Link     *pair  `json:"link,omitempty"`
	Interval int64  `json:"interval_ms"`
	Radius   uint32 `json:"radius"`
	Path     []pair `json:"path"`
	BindCommon
}

func TestBind(t *testing.T) {
	// Msg arrives as the generic form encoding/json produces.
	var msg any
	body := `{"at":[3,-2],"link":[1,0],"interval_ms":250,"radius":4,"path":[[0,0],[1,-1]],"id":"ns:chest","record":false}`
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatal(err)
	}
	var got bindOuter
	if err := Bind(&WsMsgReq{Body: &ReqBody{Msg: msg}}, &got); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got.At != (pair{3, -2}) || got.Link == nil || *got.Link != (pair{1, 0}) {
		t.Fatalf("custom fields: at=%v link=%v", got.At, got.Link)
	}
	if got.Interval != 250 || got.Radius != 4 {
		t.Fatalf("numbers: %+v", got)
	}
	if len(got.Path) != 2 || got.Path[1] != (pair{1, -1}) {
		t.Fatalf("path=%v", got.Path)
	}
	if got.ID != "ns:chest" || got.Record == nil || *got.Record {
		t.Fatalf("embedded fields: id=%q record=%v", got.ID, got.Record)
	}
}

func TestBindRejects(t *testing.T) {
	tests := []struct {
		name string
		req  *WsMsgReq
	}{
		{"nil request", nil},
		{"nil body", &WsMsgReq{}},
		{"malformed custom field", &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"at": "north"}}}},
		{"string for number", &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"interval_ms": "fast"}}}},
		{"negative unsigned", &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"radius": float64(-1)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst bindOuter
			if err := Bind(tt.req, &dst); err == nil {
				t.Fatalf("Bind accepted %s", fmt.Sprint(tt.req))
			}
		})
	}
}

func TestBindIgnoresUnknownKeys(t *testing.T) {
	var dst bindOuter
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"id": "x", "extra": 1}}}
	if err := Bind(req, &dst); err != nil || dst.ID != "x" {
		t.Fatalf("Bind: dst=%+v err=%v", dst, err)
	}
}
