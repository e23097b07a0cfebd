package game

import "errors"

// ErrRoomNotFound is returned by Join when intent=join names a room code
// nobody has created. It is the only error surfaced to a client; every
// other misuse is silently dropped so the rest of the session survives.
var ErrRoomNotFound = errors.New("room not found")
