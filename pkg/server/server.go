package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for word completions
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a new completion server using stdin/stdout for IPC
func NewServer(completer suggest.ICompleter, cfg *config.Config) *Server {
	return NewServerWithIO(completer, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		completer: completer,
		config:    cfg,
		decoder:   msgpack.NewDecoder(r),
		encoder:   msgpack.NewEncoder(w),
		logger:    logger.New("server"),
	}
}

// Start signals readiness and serves requests until the input stream ends.
// A request that is valid msgpack but has the wrong shape gets an error
// response; a corrupt stream ends the loop with an error.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Client closed input", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request stream: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}

		if err := s.handleRaw(raw); err != nil {
			return err
		}
	}
}

// handleRaw decodes and dispatches one request. Only write failures are returned.
func (s *Server) handleRaw(raw msgpack.RawMessage) error {
	s.requestCount++

	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "Invalid msgpack request", CodeBadRequest)
	}

	switch req.Action {
	case "", ActionComplete:
		return s.handleComplete(req)
	case ActionInsert:
		return s.handleInsert(req)
	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Stats: s.completer.Stats()})
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		return s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), CodeUnknownAction)
	}
}

// handleComplete validates the prefix and limit against the server config and
// answers with the lexicographically ordered matches.
func (s *Server) handleComplete(req Request) error {
	cfg := s.config.Server
	if len(req.Prefix) < cfg.MinPrefix {
		s.logger.Debug("Prefix too short", "prefix", req.Prefix)
		return s.sendError(req.ID, fmt.Sprintf("Prefix must be at least %d characters", cfg.MinPrefix), CodeBadRequest)
	}
	if len(req.Prefix) > cfg.MaxPrefix {
		s.logger.Debug("Prefix too long", "len", len(req.Prefix))
		return s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", cfg.MaxPrefix), CodeBadRequest)
	}

	limit := req.Limit
	if limit < 1 || limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	start := time.Now()
	res, err := s.completer.Query(req.Prefix)
	if err != nil {
		return s.sendQueryError(req.ID, err)
	}
	suggestions := suggest.ToSuggestions(res, limit)
	elapsed := time.Since(start)

	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{Word: sg.Word, Rank: i + 1}
	}

	s.logger.Debugf("Took [ %v ] for prefix '%s' (%s)", elapsed, req.Prefix, res.Outcome)
	return s.send(CompletionResponse{
		ID:          req.ID,
		Outcome:     res.Outcome.String(),
		Suggestions: out,
		Count:       len(out),
		Total:       len(res.Words),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleInsert(req Request) error {
	if req.Word == "" {
		return s.sendError(req.ID, "Missing 'w' parameter", CodeBadRequest)
	}
	if err := s.completer.AddWord(req.Word); err != nil {
		return s.sendQueryError(req.ID, err)
	}
	return s.send(InsertResponse{
		ID:     req.ID,
		Status: "ok",
		Words:  s.completer.Stats()["totalWords"],
	})
}

func (s *Server) sendQueryError(id string, err error) error {
	if errors.Is(err, trie.ErrInvalidCharacter) {
		return s.sendError(id, err.Error(), CodeInvalidCharacter)
	}
	s.logger.Errorf("Request %s failed: %v", id, err)
	return s.sendError(id, "Internal server error", CodeInternal)
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// send encodes one response onto the output stream
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
