// Package id interns namespaced identifiers ("automancy:conveyor") into
// compact comparable handles.
package id

import (
	"Automancy/internal/game/errs"
	"strings"
	"sync"
)

const (
	Separator        = ":"
	DefaultNamespace = "automancy"
)

// Id is an interned identifier. The zero value is never issued.
type Id uint32

func (i Id) Valid() bool { return i != 0 }

// Raw is the string form of an identifier.
type Raw struct {
	Namespace string
	Name      string
}

func NewRaw(namespace, name string) (Raw, error) {
	if namespace == "" || name == "" ||
		strings.Contains(namespace, Separator) || strings.Contains(name, Separator) {
		return Raw{}, errs.ErrInvalidID.WithData("namespace", namespace).WithData("name", name)
	}
	return Raw{Namespace: namespace, Name: name}, nil
}

// ParseRaw splits "namespace:name". Both parts must be non-empty and the
// separator must appear exactly once.
func ParseRaw(s string) (Raw, error) {
	namespace, name, ok := strings.Cut(s, Separator)
	if !ok {
		return Raw{}, errs.ErrInvalidID.WithData("id", s)
	}
	return NewRaw(namespace, name)
}

func (r Raw) String() string {
	return r.Namespace + Separator + r.Name
}

// Interner is written during resource loading and read-shared afterwards.
type Interner struct {
	mu    sync.RWMutex
	ids   map[Raw]Id
	names []Raw
}

func NewInterner() *Interner {
	return &Interner{
		ids:   make(map[Raw]Id),
		names: []Raw{{}},
	}
}

func (in *Interner) Intern(namespace, name string) (Id, error) {
	raw, err := NewRaw(namespace, name)
	if err != nil {
		return 0, err
	}
	return in.InternRaw(raw), nil
}

// InternString interns "namespace:name".
func (in *Interner) InternString(s string) (Id, error) {
	raw, err := ParseRaw(s)
	if err != nil {
		return 0, err
	}
	return in.InternRaw(raw), nil
}

func (in *Interner) InternRaw(raw Raw) Id {
	in.mu.RLock()
	id, ok := in.ids[raw]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[raw]; ok {
		return id
	}
	id = Id(len(in.names))
	in.names = append(in.names, raw)
	in.ids[raw] = id
	return id
}

// MustIntern panics on malformed input. Meant for static tables and tests.
func (in *Interner) MustIntern(s string) Id {
	id, err := in.InternString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Get looks up s without interning it.
func (in *Interner) Get(s string) (Id, bool) {
	raw, err := ParseRaw(s)
	if err != nil {
		return 0, false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.ids[raw]
	return id, ok
}

func (in *Interner) Resolve(id Id) (Raw, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == 0 || int(id) >= len(in.names) {
		return Raw{}, false
	}
	return in.names[id], true
}

// Name returns the string form of id, or "" when id is unknown.
func (in *Interner) Name(id Id) string {
	raw, ok := in.Resolve(id)
	if !ok {
		return ""
	}
	return raw.String()
}

func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names) - 1
}
