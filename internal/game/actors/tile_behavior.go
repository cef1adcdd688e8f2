package actors

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/actor/messages"
)

const (
	rejectTombstoned = "tombstoned"
	rejectNoScript   = "no script"
	rejectFull       = "full"
	rejectFiltered   = "filtered"
	rejectInert      = "not accepting"
)

func (t *TileActor) ids() resource.IDs { return t.reg.IDs }

func (t *TileActor) buffer() *data.Inventory {
	return t.data.InventoryOrNew(t.ids().Buffer)
}

func (t *TileActor) targetCoord() (coord.TileCoord, bool) {
	target, ok := t.data.Coord(t.ids().Target)
	if !ok {
		return coord.TileCoord{}, false
	}
	return t.coord.Add(target), true
}

// script is the tile's own script key, falling back to the type default.
func (t *TileActor) script() (resource.Script, bool) {
	sid, ok := t.data.ID(t.ids().Script)
	if !ok {
		sid, ok = t.def.Data.ID(t.ids().Script)
	}
	if !ok {
		return resource.Script{}, false
	}
	return t.reg.Script(sid)
}

// tick never consumes anything itself. Consumption happens once the
// coordinator confirms the transfer with TransactionDone.
func (t *TileActor) tick(count uint64) *messages.Ticked {
	out := &messages.Ticked{Coord: t.coord, Count: count}
	t.reserved = data.NewInventory()
	if t.tombstoned || t.offering {
		return out
	}
	switch t.def.Kind {
	case resource.KindMachine:
		if offer, ok := t.machineOffer(); ok {
			out.Offers = append(out.Offers, offer)
		}
	case resource.KindNode:
		if offer, ok := t.nodeOffer(); ok {
			out.Offers = append(out.Offers, offer)
		}
	case resource.KindLinker:
		if req, ok := t.linkerRequest(); ok {
			out.Extracts = append(out.Extracts, req)
		}
	}
	t.offering = len(out.Offers) > 0
	return out
}

func (t *TileActor) machineOffer() (messages.Offer, bool) {
	script, ok := t.script()
	if !ok || len(script.Outputs) == 0 {
		return messages.Offer{}, false
	}
	dest, ok := t.targetCoord()
	if !ok {
		return messages.Offer{}, false
	}
	buf, _ := t.data.Inventory(t.ids().Buffer)
	for _, in := range script.Inputs {
		if t.countMatching(buf, in.ID) < in.Amount {
			return messages.Offer{}, false
		}
	}
	return messages.Offer{Destination: dest, Stack: script.Outputs[0]}, true
}

func (t *TileActor) nodeOffer() (messages.Offer, bool) {
	dest, ok := t.targetCoord()
	if !ok {
		return messages.Offer{}, false
	}
	buf, _ := t.data.Inventory(t.ids().Buffer)
	items := buf.Items()
	if len(items) == 0 {
		return messages.Offer{}, false
	}
	return messages.Offer{Destination: dest, Stack: items[0]}, true
}

func (t *TileActor) linkerRequest() (messages.ExtractRequest, bool) {
	link, ok := t.data.Coord(t.ids().Link)
	if !ok {
		return messages.ExtractRequest{}, false
	}
	dest, ok := t.targetCoord()
	if !ok {
		return messages.ExtractRequest{}, false
	}
	return messages.ExtractRequest{From: t.coord.Add(link), To: dest}, true
}

func (t *TileActor) onDone(stack data.ItemStack) {
	switch t.def.Kind {
	case resource.KindMachine:
		script, ok := t.script()
		if !ok {
			return
		}
		buf := t.buffer()
		for _, in := range script.Inputs {
			t.takeMatching(buf, in.ID, in.Amount)
		}
	case resource.KindNode:
		t.buffer().Take(stack.ID, stack.Amount)
	default:
		return
	}
	t.publish()
}

func (t *TileActor) accept(offer *messages.TransactionOffer) any {
	reject := func(reason string) any {
		return &messages.TransactionRejected{Seq: offer.Seq, Reason: reason}
	}
	if t.tombstoned {
		return reject(rejectTombstoned)
	}
	stack := offer.Stack
	if stack.Amount == 0 {
		return reject(rejectInert)
	}

	switch t.def.Kind {
	case resource.KindMachine:
		script, ok := t.script()
		if !ok {
			return reject(rejectNoScript)
		}
		buf := t.buffer()
		matched := false
		for _, in := range script.Inputs {
			if !t.reg.ItemMatches(stack.ID, in.ID) {
				continue
			}
			matched = true
			if t.countMatching(buf, in.ID)+stack.Amount > 2*in.Amount {
				return reject(rejectFull)
			}
			break
		}
		if !matched {
			return reject(rejectFiltered)
		}
		if buf.Room(stack.ID) < stack.Amount {
			return reject(rejectFull)
		}
		buf.Add(stack.ID, stack.Amount)

	case resource.KindStorage:
		if filter, ok := t.data.ID(t.ids().Storage); ok && !t.reg.ItemMatches(stack.ID, filter) {
			return reject(rejectFiltered)
		}
		buf := t.buffer()
		if limit, ok := t.data.Amount(t.ids().Amount); ok && buf.Total()+uint64(stack.Amount) > uint64(limit) {
			return reject(rejectFull)
		}
		if buf.Room(stack.ID) < stack.Amount {
			return reject(rejectFull)
		}
		buf.Add(stack.ID, stack.Amount)

	case resource.KindNode:
		buf := t.buffer()
		if !buf.Empty() {
			return reject(rejectFull)
		}
		buf.Add(stack.ID, stack.Amount)

	case resource.KindVoid:
		return &messages.TransactionResult{Seq: offer.Seq, Stack: stack}

	default:
		return reject(rejectInert)
	}

	t.publish()
	return &messages.TransactionResult{Seq: offer.Seq, Stack: stack}
}

// extract offers one unit of the first stored item passing the storage
// filter. The unit stays in the buffer, reserved, until ExtractDone.
func (t *TileActor) extract(req *messages.Extract) *messages.ExtractReply {
	miss := &messages.ExtractReply{Seq: req.Seq}
	if t.tombstoned || t.def.Kind != resource.KindStorage {
		return miss
	}
	buf, ok := t.data.Inventory(t.ids().Buffer)
	if !ok {
		return miss
	}
	filter, filtered := t.data.ID(t.ids().Storage)
	for _, s := range buf.Items() {
		if filtered && !t.reg.ItemMatches(s.ID, filter) {
			continue
		}
		if s.Amount <= t.reserved.Get(s.ID) {
			continue
		}
		t.reserved.Add(s.ID, 1)
		return &messages.ExtractReply{Seq: req.Seq, Stack: data.ItemStack{ID: s.ID, Amount: 1}, Ok: true}
	}
	return miss
}

func (t *TileActor) onExtracted(stack data.ItemStack) {
	t.reserved.Take(stack.ID, stack.Amount)
	if t.buffer().Take(stack.ID, stack.Amount) > 0 {
		t.publish()
	}
}

// countMatching sums every count in inv that satisfies filter.
func (t *TileActor) countMatching(inv *data.Inventory, filter id.Id) uint32 {
	var n uint32
	for _, s := range inv.Items() {
		if t.reg.ItemMatches(s.ID, filter) {
			n += s.Amount
		}
	}
	return n
}

func (t *TileActor) takeMatching(inv *data.Inventory, filter id.Id, n uint32) {
	for _, s := range inv.Items() {
		if n == 0 {
			return
		}
		if t.reg.ItemMatches(s.ID, filter) {
			n -= inv.Take(s.ID, n)
		}
	}
}
