// Package codec is the versioned on-disk form of a map: a zstd stream that
// starts with a one-line JSON header followed by the JSON body.
package codec

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/resource"
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

const FormatVersion = 1

type Header struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	SavedAt   time.Time `json:"saved_at"`
	TileCount int       `json:"tile_count"`
}

func (h Header) Info() entity.MapInfo {
	return entity.MapInfo{Name: h.Name, TileCount: h.TileCount, SavedAt: h.SavedAt}
}

// TileData is one persisted tile. The well-known keys get their own fields;
// every other key goes to Data.
type TileData struct {
	Type      string           `json:"type"`
	Variant   int32            `json:"variant"`
	Inventory *[]data.StackRaw `json:"inventory,omitempty"`
	Target    *coord.TileCoord `json:"target,omitempty"`
	Link      *coord.TileCoord `json:"link,omitempty"`
	Script    string           `json:"script,omitempty"`
	Data      data.DataMapRaw  `json:"data,omitempty"`
}

// tileEntry encodes as [coord, tile].
type tileEntry struct {
	Coord coord.TileCoord
	Tile  TileData
}

func (e tileEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Coord, e.Tile})
}

func (e *tileEntry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("tile entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Coord); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Tile)
}

type body struct {
	Tiles []tileEntry     `json:"tiles"`
	Data  data.DataMapRaw `json:"data"`
}

// Codec resolves identifiers through the registry it was built with.
type Codec struct {
	reg *resource.Registry
}

func New(reg *resource.Registry) *Codec {
	return &Codec{reg: reg}
}

// Encode writes snap to w. Output is byte-for-byte stable for equal input.
func (c *Codec) Encode(w io.Writer, snap *entity.MapSnapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	b := body{Tiles: make([]tileEntry, 0, len(snap.Tiles)), Data: snap.Data.ToRaw(c.reg.Interner)}
	for _, r := range snap.Tiles {
		td, ok := c.tileToRaw(r)
		if !ok {
			continue
		}
		b.Tiles = append(b.Tiles, tileEntry{Coord: r.Coord, Tile: td})
	}

	h := Header{Version: FormatVersion, Name: snap.Name, SavedAt: snap.SavedAt.UTC(), TileCount: len(b.Tiles)}
	hb, err := json.Marshal(h)
	if err != nil {
		_ = enc.Close()
		return err
	}
	bb, err := json.Marshal(b)
	if err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(bb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func (c *Codec) Marshal(snap *entity.MapSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadHeader decodes only the header line.
func ReadHeader(r io.Reader) (Header, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return Header{}, err
	}
	defer dec.Close()
	return readHeader(bufio.NewReader(dec))
}

func readHeader(br *bufio.Reader) (Header, error) {
	line, err := br.ReadBytes('\n')
	if err != nil {
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return Header{}, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != FormatVersion {
		return Header{}, fmt.Errorf("unsupported map format version %d", h.Version)
	}
	return h, nil
}

// Decode reads a map. Tiles whose type is no longer a registered tile are
// dropped; unknown identifiers inside tile data are dropped with them.
func (c *Codec) Decode(r io.Reader) (*entity.MapSnapshot, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	var b body
	if err := json.NewDecoder(br).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	snap := &entity.MapSnapshot{
		Name:    h.Name,
		SavedAt: h.SavedAt,
		Tiles:   make([]entity.TileRecord, 0, len(b.Tiles)),
		Data:    b.Data.FromRaw(c.reg.Interner),
	}
	for _, e := range b.Tiles {
		if r, ok := c.tileFromRaw(e.Coord, e.Tile); ok {
			snap.Tiles = append(snap.Tiles, r)
		}
	}
	return snap, nil
}

func (c *Codec) Unmarshal(b []byte) (*entity.MapSnapshot, error) {
	return c.Decode(bytes.NewReader(b))
}

func (c *Codec) tileToRaw(r entity.TileRecord) (TileData, bool) {
	in, ids := c.reg.Interner, c.reg.IDs
	td := TileData{Type: in.Name(r.ID), Variant: r.Modifier}
	if td.Type == "" {
		return TileData{}, false
	}
	rest := r.Data.Clone()
	if inv, ok := rest.Inventory(ids.Buffer); ok {
		stacks := data.InventoryToRaw(inv, in)
		td.Inventory = &stacks
		rest.Remove(ids.Buffer)
	}
	if t, ok := rest.Coord(ids.Target); ok {
		td.Target = &t
		rest.Remove(ids.Target)
	}
	if l, ok := rest.Coord(ids.Link); ok {
		td.Link = &l
		rest.Remove(ids.Link)
	}
	if s, ok := rest.ID(ids.Script); ok {
		if name := in.Name(s); name != "" {
			td.Script = name
			rest.Remove(ids.Script)
		}
	}
	if rest.Len() > 0 {
		td.Data = rest.ToRaw(in)
	}
	return td, true
}

func (c *Codec) tileFromRaw(at coord.TileCoord, td TileData) (entity.TileRecord, bool) {
	in, ids := c.reg.Interner, c.reg.IDs
	tileID, ok := in.Get(td.Type)
	if !ok || tileID == ids.None {
		return entity.TileRecord{}, false
	}
	if _, ok := c.reg.Tile(tileID); !ok {
		return entity.TileRecord{}, false
	}
	d := td.Data.FromRaw(in)
	if td.Inventory != nil {
		d.Set(ids.Buffer, data.InventoryFromRaw(*td.Inventory, in))
	}
	if td.Target != nil {
		d.Set(ids.Target, data.Coord(*td.Target))
	}
	if td.Link != nil {
		d.Set(ids.Link, data.Coord(*td.Link))
	}
	if td.Script != "" {
		if s, ok := in.Get(td.Script); ok {
			d.Set(ids.Script, data.ID(s))
		}
	}
	return entity.TileRecord{Coord: at, ID: tileID, Modifier: td.Variant, Data: d}, true
}

// Empty is the snapshot used when a map is missing or unreadable.
func Empty(name string) *entity.MapSnapshot {
	return &entity.MapSnapshot{Name: name, Data: data.DataMap{}}
}
