// Package messages defines every message exchanged between the game
// coordinator, tile actors and the runtime facade.
package messages

import "Automancy/internal/game/data"

// FailResp is returned by the coordinator when it cannot serve a request.
type FailResp struct {
	Code    string
	Message string
}

// TileQuery marks tile messages that expect a reply. The coordinator
// forwards these to the tile so the tile answers the original requester.
type TileQuery interface {
	tileQuery()
}

// Delivered acknowledges a fire-and-forget tile message routed through the
// coordinator.
type Delivered struct {
	Ok bool
}

// Stack is shorthand used across the transfer messages.
type Stack = data.ItemStack
