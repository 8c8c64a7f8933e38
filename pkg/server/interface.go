/*
Package server implements msgpack IPC for suggestion services.

The server speaks binary msgpack over stdin/stdout on a request/response
model. Each request carries an ID and an op field; the remaining fields
depend on the op. Messages are processed synchronously with timing info
included in responses.

# IPC

Suggestion requests use this structure:

	{"id": "req_001", "op": "suggest", "p": "gat", "l": 10}

The server responds with suggestions ranked by weight:

	{"id": "req_001", "s": [{"t": "The Great Gatsby", "w": 100000000}], "c": 1, "t": 145}

Document changes are pushed incrementally and become visible after a commit:

	{"id": "doc_001", "op": "add", "doc": {"id": "42", "f": {"title": ["The Great Gatsby"]}}}
	{"id": "doc_002", "op": "commit"}

Index management ops:

	{"id": "adm_001", "op": "build"}
	{"id": "adm_002", "op": "reload"}
	{"id": "adm_003", "op": "count"}
	{"id": "adm_004", "op": "health"}

Error responses carry the request ID, a message and an HTTP-flavored code:

	{"id": "req_001", "e": "missing 'p' parameter", "c": 400}
*/
package server

// SuggestRequest is the envelope for every incoming message. Fields beyond
// ID and Op are op-specific and omitted elsewhere.
type SuggestRequest struct {
	ID     string           `msgpack:"id"`
	Op     string           `msgpack:"op"`
	Prefix string           `msgpack:"p,omitempty"`
	Limit  int              `msgpack:"l,omitempty"`
	Doc    *DocumentPayload `msgpack:"doc,omitempty"`
}

// DocumentPayload carries one document's stored fields for the add op.
type DocumentPayload struct {
	ID     string              `msgpack:"id,omitempty"`
	Fields map[string][]string `msgpack:"f"`
}

// SuggestEntry - one ranked suggestion
type SuggestEntry struct {
	Term   string `msgpack:"t"`
	Weight int64  `msgpack:"w"`
}

// SuggestResponse - ranked suggestions for one request
type SuggestResponse struct {
	ID          string         `msgpack:"id"`
	Suggestions []SuggestEntry `msgpack:"s"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"` // microseconds
}

// StatusResponse - outcome of add/commit/build/reload/count/health ops
type StatusResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	State     string `msgpack:"state,omitempty"`
	Count     int    `msgpack:"count,omitempty"`
	TimeTaken int64  `msgpack:"t,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
