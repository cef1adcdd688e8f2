package ws

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

var jsonUnmarshaler = reflect.TypeFor[json.Unmarshaler]()

// Bind decodes WsMsgReq.Body.Msg into dst. Field names come from the json
// tags and embedded structs are flattened, so the DTOs shared with the HTTP
// handlers bind the same way here.
func Bind(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Squash:     true,
		DecodeHook: unmarshalJSONHook,
		Result:     dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}

// unmarshalJSONHook hands values whose type has its own wire form (a
// coordinate sent as [q, r], an item stack as [id, count]) to UnmarshalJSON.
func unmarshalJSONHook(from, to reflect.Type, data any) (any, error) {
	if from == to || to.Kind() == reflect.Pointer || !reflect.PointerTo(to).Implements(jsonUnmarshaler) {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := reflect.New(to)
	if err := json.Unmarshal(raw, out.Interface()); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}
