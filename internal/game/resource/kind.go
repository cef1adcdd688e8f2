package resource

import (
	"encoding/json"
	"fmt"
)

// Kind selects the tick behavior of a tile type.
type Kind uint8

const (
	KindNone Kind = iota
	KindDeco
	KindMachine
	KindStorage
	KindNode
	KindLinker
	KindVoid
)

var kindNames = [...]string{
	KindNone:    "none",
	KindDeco:    "deco",
	KindMachine: "machine",
	KindStorage: "storage",
	KindNode:    "node",
	KindLinker:  "linker",
	KindVoid:    "void",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindNone, false
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, ok := ParseKind(s)
	if !ok {
		return fmt.Errorf("unknown tile kind %q", s)
	}
	*k = v
	return nil
}

// AcceptsItems reports whether tiles of this kind take part in transfers.
func (k Kind) AcceptsItems() bool {
	switch k {
	case KindMachine, KindStorage, KindNode, KindVoid:
		return true
	}
	return false
}
