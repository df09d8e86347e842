// Package game glues a peer's simulation to the relay once per frame: poll
// relayed messages, merge them, step the local half and push its changes.
package game

import (
	"errors"

	"github.com/automoto/friendlyjam/assets"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/messages"
)

// ErrPeerFailed is returned once the other peer reports a terminal failure.
var ErrPeerFailed = errors.New("peer failed")

// Relay is the client's connection to the coordinator. Both calls must not
// block; network.Client satisfies it.
type Relay interface {
	Send(msg messages.ClientMessage) error
	Poll() []messages.ServerMessage
}

// Surface receives draw requests in back-to-front order.
type Surface interface {
	Draw(box collision.AABB, sprite assets.Sprite)
}
