/*
Package server implements msgpack IPC for completion sessions.

The server provides a minimal interface for hosting completion models over
msgpack serialization on stdin/stdout. An editor host opens a session at a
trigger point, syncs the leading line content as the user types, and reads
back the filtered, scored projection after every sync.

# IPC

The protocol is request/response. Each message carries an ID and an op:

	{"id": "r1", "op": "open", "l": "con", "col": 4, "lim": 24}

The server replies with a session id and the current projection:

	{"id": "r1", "sid": "s0001", "items": [{"w": "console", "s": 38}], "c": 1, "t": 120}

Sync messages replace the session's line context. The delta field is the
signed count of characters typed minus deleted since the session opened:

	{"id": "r2", "op": "sync", "sid": "s0001", "l": "cons", "d": 1}

When the reply reports incomplete providers (inc > 0), the host should send
a requery. The server adopts the items from complete batches, re-queries the
dictionary with the longer prefix and swaps in the merged model:

	{"id": "r3", "op": "requery", "sid": "s0001", "l": "cons", "col": 4}

Other ops are "close", "health" and "config" (runtime snippet policy
update). Failures reply with {"id", "e", "c"}; the server never exits on a
malformed frame.

msgpack's binary framing keeps messages ~30 to 50% smaller than JSON and is
cheap enough to sit on the per-keystroke path.
*/
package server

// Request is an incoming IPC message.
type Request struct {
	ID      string `msgpack:"id"`
	Op      string `msgpack:"op"`
	Session string `msgpack:"sid,omitempty"`
	Line    string `msgpack:"l,omitempty"`
	Column  int    `msgpack:"col,omitempty"`
	Delta   int    `msgpack:"d,omitempty"`
	Limit   int    `msgpack:"lim,omitempty"`
	Policy  string `msgpack:"pol,omitempty"`
}

// ItemPayload is one projected completion item.
type ItemPayload struct {
	Label      string `msgpack:"w"`
	InsertText string `msgpack:"ins,omitempty"`
	Kind       string `msgpack:"k,omitempty"`
	Score      int    `msgpack:"s"`
	Matches    []int  `msgpack:"m,omitempty"`
}

// Response answers open, sync and requery requests.
type Response struct {
	ID         string        `msgpack:"id"`
	Session    string        `msgpack:"sid,omitempty"`
	Items      []ItemPayload `msgpack:"items,omitempty"`
	Count      int           `msgpack:"c"`
	Incomplete int           `msgpack:"inc,omitempty"`
	TimeTaken  int64         `msgpack:"t"`
}

// StatusReply answers close, health and config requests.
type StatusReply struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorReply holds basic error information for failed requests.
type ErrorReply struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
