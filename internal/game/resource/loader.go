package resource

import (
	"Automancy/internal/game/data"
	"Automancy/internal/game/errs"
	"Automancy/internal/game/id"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type itemFile struct {
	ID string `json:"id"`
}

type tagFile struct {
	ID    string   `json:"id"`
	Items []string `json:"items"`
}

type stackFile struct {
	ID     string `json:"id"`
	Amount uint32 `json:"amount"`
}

type scriptFile struct {
	ID      string      `json:"id"`
	Inputs  []stackFile `json:"inputs"`
	Outputs []stackFile `json:"outputs"`
}

type tileFile struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"kind"`
	Targeted bool            `json:"targeted"`
	Linking  bool            `json:"linking"`
	Models   []string        `json:"models"`
	Data     data.DataMapRaw `json:"data"`
}

// Load reads every namespace directory under dir. Each namespace may hold
// items/, tags/, scripts/ and tiles/ subdirectories of JSON files. All
// namespaces are loaded one category at a time, so a tile may reference a
// script from another namespace. Any invalid file or dangling reference
// fails the whole load.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.ErrResourceInvalid.WithCause(err).WithData("dir", dir)
	}
	var namespaces []string
	for _, e := range entries {
		if e.IsDir() {
			namespaces = append(namespaces, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(namespaces)

	l := &loader{reg: newRegistry(id.NewInterner())}
	steps := []struct {
		sub    string
		schema *jsonschema.Schema
		load   func(path string, raw []byte) error
	}{
		{"items", itemSchema, l.item},
		{"tags", tagSchema, l.tag},
		{"scripts", scriptSchema, l.script},
		{"tiles", tileSchema, l.tile},
	}
	for _, step := range steps {
		for _, ns := range namespaces {
			files, err := filepath.Glob(filepath.Join(ns, step.sub, "*.json"))
			if err != nil {
				return nil, errs.ErrResourceInvalid.WithCause(err)
			}
			slices.Sort(files)
			for _, f := range files {
				raw, err := validateFile(f, step.schema)
				if err != nil {
					return nil, err
				}
				if err := step.load(f, raw); err != nil {
					return nil, err
				}
			}
		}
	}
	return l.reg, nil
}

func validateFile(path string, schema *jsonschema.Schema) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ErrResourceInvalid.WithCause(err).WithData("file", path)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.ErrResourceInvalid.WithCause(err).WithData("file", path)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, errs.ErrResourceInvalid.WithCause(err).WithData("file", path)
	}
	return raw, nil
}

type loader struct {
	reg *Registry
}

func (l *loader) decode(path string, raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errs.ErrResourceInvalid.WithCause(err).WithData("file", path)
	}
	return nil
}

func (l *loader) intern(path, name string) (id.Id, error) {
	i, err := l.reg.Interner.InternString(name)
	if err != nil {
		return 0, errs.ErrInvalidID.WithCause(err).WithData("file", path).WithData("id", name)
	}
	return i, nil
}

// ref resolves a name that must already be defined by check.
func (l *loader) ref(path, name string, check func(id.Id) bool) (id.Id, error) {
	i, ok := l.reg.Interner.Get(name)
	if !ok || !check(i) {
		return 0, errs.ErrMissingRef.WithData("file", path).WithData("id", name)
	}
	return i, nil
}

func (l *loader) isItem(i id.Id) bool {
	_, ok := l.reg.items[i]
	return ok
}

func (l *loader) isItemOrTag(i id.Id) bool {
	_, ok := l.reg.tags[i]
	return ok || l.isItem(i)
}

func (l *loader) item(path string, raw []byte) error {
	var f itemFile
	if err := l.decode(path, raw, &f); err != nil {
		return err
	}
	i, err := l.intern(path, f.ID)
	if err != nil {
		return err
	}
	l.reg.items[i] = Item{ID: i}
	return nil
}

func (l *loader) tag(path string, raw []byte) error {
	var f tagFile
	if err := l.decode(path, raw, &f); err != nil {
		return err
	}
	i, err := l.intern(path, f.ID)
	if err != nil {
		return err
	}
	members := make(data.SetID, len(f.Items))
	for _, name := range f.Items {
		m, err := l.ref(path, name, l.isItem)
		if err != nil {
			return err
		}
		members[m] = struct{}{}
	}
	l.reg.tags[i] = members
	return nil
}

func (l *loader) stacks(path string, in []stackFile) ([]data.ItemStack, error) {
	out := make([]data.ItemStack, 0, len(in))
	for _, s := range in {
		i, err := l.ref(path, s.ID, l.isItemOrTag)
		if err != nil {
			return nil, err
		}
		out = append(out, data.ItemStack{ID: i, Amount: s.Amount})
	}
	return out, nil
}

func (l *loader) script(path string, raw []byte) error {
	var f scriptFile
	if err := l.decode(path, raw, &f); err != nil {
		return err
	}
	i, err := l.intern(path, f.ID)
	if err != nil {
		return err
	}
	inputs, err := l.stacks(path, f.Inputs)
	if err != nil {
		return err
	}
	outputs, err := l.stacks(path, f.Outputs)
	if err != nil {
		return err
	}
	for _, o := range outputs {
		if !l.isItem(o.ID) {
			return errs.ErrMissingRef.WithData("file", path).WithData("output", l.reg.Name(o.ID))
		}
	}
	l.reg.scripts[i] = Script{ID: i, Inputs: inputs, Outputs: outputs}
	return nil
}

func (l *loader) tile(path string, raw []byte) error {
	var f tileFile
	if err := l.decode(path, raw, &f); err != nil {
		return err
	}
	i, err := l.intern(path, f.ID)
	if err != nil {
		return err
	}
	def := TileDef{ID: i, Kind: f.Kind, Targeted: f.Targeted, Linking: f.Linking}
	for _, m := range f.Models {
		mi, err := l.intern(path, m)
		if err != nil {
			return err
		}
		def.Models = append(def.Models, mi)
	}
	if def.Data, err = l.defaults(path, f.Data); err != nil {
		return err
	}
	if script, ok := def.Data.ID(l.reg.IDs.Script); ok {
		if _, ok := l.reg.scripts[script]; !ok {
			return errs.ErrMissingRef.WithData("file", path).WithData("script", l.reg.Name(script))
		}
	}
	l.reg.tiles[i] = def
	return nil
}

// defaults interns data keys but requires every referenced value to exist.
func (l *loader) defaults(path string, raw data.DataMapRaw) (data.DataMap, error) {
	known := func(id.Id) bool { return true }
	for key, v := range raw {
		if _, err := l.intern(path, key); err != nil {
			return nil, err
		}
		var names []string
		switch {
		case v.ID != "":
			names = append(names, v.ID)
		case v.Inventory != nil:
			for _, s := range *v.Inventory {
				names = append(names, s.ID)
			}
		case v.VecID != nil:
			names = *v.VecID
		case v.SetID != nil:
			names = *v.SetID
		}
		for _, name := range names {
			if _, err := l.ref(path, name, known); err != nil {
				return nil, err
			}
		}
	}
	return raw.FromRaw(l.reg.Interner), nil
}
