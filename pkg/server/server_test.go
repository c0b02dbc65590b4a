package server

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// session encodes msgs as a request stream, runs the server over it and
// returns the decoder positioned after the ready message.
func session(t *testing.T, c suggest.ICompleter, cfg *config.Config, msgs ...any) (*msgpack.Decoder, error) {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	var out bytes.Buffer
	err := NewServerWithIO(c, cfg, &in, &out).Start()

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if decErr := dec.Decode(&ready); decErr != nil || ready.Status != "ready" {
		t.Fatalf("ready message = %+v, %v", ready, decErr)
	}
	return dec, err
}

func completer(t *testing.T, words ...string) *suggest.Completer {
	t.Helper()
	c := suggest.NewCompleter()
	for _, w := range words {
		if err := c.AddWord(w); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func respWords(r CompletionResponse) []string {
	out := []string{}
	for _, s := range r.Suggestions {
		out = append(out, s.Word)
	}
	return out
}

func TestServerComplete(t *testing.T) {
	c := completer(t, "cat", "car", "cats", "dog")
	dec, err := session(t, c, nil,
		Request{ID: "1", Prefix: "ca"},
		Request{ID: "2", Action: ActionComplete, Prefix: "dog"},
		Request{ID: "3", Prefix: "x"},
		Request{ID: "4", Prefix: "ca", Limit: 2},
	)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	testCases := []struct {
		id      string
		outcome string
		words   []string
		total   int
	}{
		{"1", "extensions", []string{"car", "cat", "cats"}, 3},
		{"2", "exact", []string{"dog"}, 1},
		{"3", "no_match", []string{}, 0},
		{"4", "extensions", []string{"car", "cat"}, 3},
	}
	for _, tc := range testCases {
		var resp CompletionResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decode response %s: %v", tc.id, err)
		}
		if resp.ID != tc.id || resp.Outcome != tc.outcome {
			t.Errorf("response %s: got id %s outcome %s, want %s", tc.id, resp.ID, resp.Outcome, tc.outcome)
		}
		if !slices.Equal(respWords(resp), tc.words) {
			t.Errorf("response %s: words %v, want %v", tc.id, respWords(resp), tc.words)
		}
		if resp.Count != len(tc.words) || resp.Total != tc.total {
			t.Errorf("response %s: count %d total %d", tc.id, resp.Count, resp.Total)
		}
		for i, s := range resp.Suggestions {
			if s.Rank != i+1 {
				t.Errorf("response %s: rank %d at position %d", tc.id, s.Rank, i)
			}
		}
	}
}

func TestServerInsertThenComplete(t *testing.T) {
	c := suggest.NewCachedCompleter(8)
	dec, err := session(t, c, nil,
		Request{ID: "q1", Prefix: "ca"},
		Request{ID: "i1", Action: ActionInsert, Word: "cat"},
		Request{ID: "i2", Action: ActionInsert, Word: "Cat"},
		Request{ID: "i3", Action: ActionInsert},
		Request{ID: "q2", Prefix: "ca"},
		Request{ID: "q3", Prefix: "cat"},
	)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var q1 CompletionResponse
	if err := dec.Decode(&q1); err != nil {
		t.Fatalf("decode q1: %v", err)
	}
	if q1.Outcome != "no_match" {
		t.Errorf("q1 outcome = %s", q1.Outcome)
	}

	var i1 InsertResponse
	if err := dec.Decode(&i1); err != nil {
		t.Fatalf("decode i1: %v", err)
	}
	if i1.ID != "i1" || i1.Status != "ok" || i1.Words != 1 {
		t.Errorf("i1 = %+v", i1)
	}

	var i2 ErrorResponse
	if err := dec.Decode(&i2); err != nil {
		t.Fatalf("decode i2: %v", err)
	}
	if i2.ID != "i2" || i2.Code != CodeInvalidCharacter {
		t.Errorf("i2 = %+v", i2)
	}

	var i3 ErrorResponse
	if err := dec.Decode(&i3); err != nil {
		t.Fatalf("decode i3: %v", err)
	}
	if i3.ID != "i3" || i3.Code != CodeBadRequest {
		t.Errorf("i3 = %+v", i3)
	}

	// "ca" now has a child, so it reports extensions even though the only
	// completion is a single word
	var q2 CompletionResponse
	if err := dec.Decode(&q2); err != nil {
		t.Fatalf("decode q2: %v", err)
	}
	if q2.ID != "q2" || q2.Outcome != "extensions" || !slices.Equal(respWords(q2), []string{"cat"}) {
		t.Errorf("q2 = %+v", q2)
	}

	var q3 CompletionResponse
	if err := dec.Decode(&q3); err != nil {
		t.Fatalf("decode q3: %v", err)
	}
	if q3.ID != "q3" || q3.Outcome != "exact" || !slices.Equal(respWords(q3), []string{"cat"}) {
		t.Errorf("q3 = %+v", q3)
	}
}

func TestServerValidation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MinPrefix = 2
	cfg.Server.MaxPrefix = 4
	cfg.Server.MaxLimit = 1

	dec, err := session(t, completer(t, "abcd", "abce"), cfg,
		Request{ID: "short", Prefix: "a"},
		Request{ID: "long", Prefix: "abcde"},
		Request{ID: "upper", Prefix: "AB"},
		Request{ID: "capped", Prefix: "abc", Limit: 50},
		Request{ID: "what", Action: "delete"},
	)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, want := range []ErrorResponse{
		{ID: "short", Code: CodeBadRequest},
		{ID: "long", Code: CodeBadRequest},
		{ID: "upper", Code: CodeInvalidCharacter},
	} {
		var got ErrorResponse
		if err := dec.Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got.ID != want.ID || got.Code != want.Code || got.Error == "" {
			t.Errorf("got %+v, want id %s code %d", got, want.ID, want.Code)
		}
	}

	var capped CompletionResponse
	if err := dec.Decode(&capped); err != nil {
		t.Fatalf("decode capped: %v", err)
	}
	if capped.Count != 1 || capped.Total != 2 {
		t.Errorf("capped = %+v", capped)
	}

	var unknown ErrorResponse
	if err := dec.Decode(&unknown); err != nil {
		t.Fatalf("decode unknown: %v", err)
	}
	if unknown.Code != CodeUnknownAction {
		t.Errorf("unknown = %+v", unknown)
	}
}

func TestServerStatsAndHealth(t *testing.T) {
	dec, err := session(t, completer(t, "a", "ab"), nil,
		Request{ID: "s", Action: ActionStats},
		Request{ID: "h", Action: ActionHealth},
	)
	if err != nil {
		t.Fatal(err)
	}

	var stats StatsResponse
	if err := dec.Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.ID != "s" || stats.Stats["totalWords"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
	var health StatusResponse
	if err := dec.Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.ID != "h" || health.Status != "ok" {
		t.Errorf("health = %+v", health)
	}
}

// A well formed message with the wrong field types is answered, not fatal.
func TestServerBadRequestShape(t *testing.T) {
	dec, err := session(t, completer(t, "cat"), nil,
		map[string]any{"id": "bad", "l": "ten"},
		Request{ID: "ok", Prefix: "c"},
	)
	if err != nil {
		t.Fatal(err)
	}

	var bad ErrorResponse
	if err := dec.Decode(&bad); err != nil {
		t.Fatalf("decode bad: %v", err)
	}
	if bad.Code != CodeBadRequest {
		t.Errorf("bad = %+v", bad)
	}
	var ok CompletionResponse
	if err := dec.Decode(&ok); err != nil {
		t.Fatalf("decode ok: %v", err)
	}
	if ok.ID != "ok" || ok.Count != 1 {
		t.Errorf("ok = %+v", ok)
	}
}

func TestServerCorruptStream(t *testing.T) {
	// 0xc1 is never used in msgpack
	in := bytes.NewReader([]byte{0xc1})
	var out bytes.Buffer
	err := NewServerWithIO(completer(t), nil, in, &out).Start()
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("Start err = %v, want decode error", err)
	}
}
