/*
Package server implements msgpack IPC for word completion services.

Clients write a stream of msgpack maps to stdin and read one msgpack map per
request from stdout. Every request carries an ID that is echoed back.

Completion requests use this structure:

	{"id": "req_001", "p": "ca", "l": 24}

The response holds the outcome and the words in lexicographic order:

	{"id": "req_001", "o": "extensions", "s": [{"w": "car", "r": 1}, {"w": "cat", "r": 2}], "c": 2, "n": 2, "t": 14}

The outcome is one of "no_match", "exact" or "extensions". "c" is the number
of suggestions returned and "n" the number of matching words before the limit.

Words are added at runtime with the insert action:

	{"id": "ins_001", "a": "insert", "w": "cart"}

Other actions are "stats" and "health". Failures are reported as:

	{"id": "ins_002", "e": "invalid character 'C' at position 0 in \"Cart\"", "c": 422}
*/
package server

// Supported actions. An empty action means ActionComplete.
const (
	ActionComplete = "complete"
	ActionInsert   = "insert"
	ActionStats    = "stats"
	ActionHealth   = "health"
)

// Error codes carried in ErrorResponse.Code
const (
	CodeBadRequest       = 400
	CodeUnknownAction    = 404
	CodeInvalidCharacter = 422
	CodeInternal         = 500
)

// Request is the union of all request shapes
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Word   string `msgpack:"w,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank int    `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Outcome     string                 `msgpack:"o"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	Total       int                    `msgpack:"n"`
	TimeTaken   int64                  `msgpack:"t"`
}

// InsertResponse acknowledges an insert and reports the dictionary size
type InsertResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Words  int    `msgpack:"n"`
}

// StatsResponse carries completer statistics
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse is sent on startup and for health checks
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
