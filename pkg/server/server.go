package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/multisuggest/pkg/config"
	"github.com/bastiangx/multisuggest/pkg/corpus"
	"github.com/bastiangx/multisuggest/pkg/suggest"
)

// SuggesterFactory builds a replacement suggester during a reload op. The
// server owns the swap: the new instance is built first, the old one closed
// after.
type SuggesterFactory func() (*suggest.Suggester, error)

// Server handles the IPC for suggestion requests and document changes.
type Server struct {
	cfg       config.ServerConfig
	corpus    *corpus.Memory
	suggester *suggest.Suggester
	factory   SuggesterFactory

	// docs accepted since the last commit; flushed into the corpus once the
	// suggester has committed so frequency math sees them exactly once
	buffered []*corpus.Document

	mu  sync.Mutex
	dec *msgpack.Decoder
	enc *msgpack.Encoder
}

// NewServer creates a suggestion server using stdin/stdout for IPC.
func NewServer(cfg config.ServerConfig, mem *corpus.Memory, sug *suggest.Suggester, factory SuggesterFactory) *Server {
	return newServer(cfg, mem, sug, factory, os.Stdin, os.Stdout)
}

func newServer(cfg config.ServerConfig, mem *corpus.Memory, sug *suggest.Suggester, factory SuggesterFactory, r io.Reader, w io.Writer) *Server {
	return &Server{
		cfg:       cfg,
		corpus:    mem,
		suggester: sug,
		factory:   factory,
		dec:       msgpack.NewDecoder(bufio.NewReader(r)),
		enc:       msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil when the client
// closes the stream.
func (s *Server) Start() error {
	log.Debug("Starting server.")

	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var req SuggestRequest
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return err
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req SuggestRequest) {
	switch req.Op {
	case "suggest":
		s.handleSuggest(req)
	case "add":
		s.handleAdd(req)
	case "commit":
		s.handleCommit(req)
	case "build":
		s.handleBuild(req)
	case "reload":
		s.handleReload(req)
	case "count":
		s.mu.Lock()
		count := s.suggester.Count()
		s.mu.Unlock()
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Count: count})
	case "health":
		s.mu.Lock()
		state := s.suggester.State().String()
		s.mu.Unlock()
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", State: state})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}
}

func (s *Server) handleSuggest(req SuggestRequest) {
	prefix := req.Prefix
	if prefix == "" {
		s.sendError(req.ID, "missing 'p' parameter", 400)
		log.Debug("Prefix is empty in request")
		return
	}
	if len(prefix) < s.cfg.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", s.cfg.MinPrefix), 400)
		return
	}
	if len(prefix) > s.cfg.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", s.cfg.MaxPrefix), 400)
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	start := time.Now()
	s.mu.Lock()
	suggestions := s.suggester.Suggest(prefix, limit)
	s.mu.Unlock()
	elapsed := time.Since(start)

	entries := make([]SuggestEntry, len(suggestions))
	for i, sg := range suggestions {
		entries[i] = SuggestEntry{Term: sg.Term, Weight: sg.Weight}
	}
	s.sendResponse(SuggestResponse{
		ID:          req.ID,
		Suggestions: entries,
		Count:       len(entries),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAdd(req SuggestRequest) {
	if req.Doc == nil || len(req.Doc.Fields) == 0 {
		s.sendError(req.ID, "missing 'doc' payload", 400)
		return
	}
	doc := &corpus.Document{ID: req.Doc.ID, Fields: req.Doc.Fields}

	s.mu.Lock()
	s.suggester.Add(doc)
	s.buffered = append(s.buffered, doc)
	s.mu.Unlock()

	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
}

// handleCommit flushes pending terms into the store, then merges the buffered
// docs into the corpus. The order matters: commit weighting counts buffered
// docs through the suggester's own pending counters, so merging first would
// count them twice.
func (s *Server) handleCommit(req SuggestRequest) {
	start := time.Now()
	s.mu.Lock()
	err := s.suggester.Commit()
	if err == nil {
		s.flushBufferedLocked()
	}
	s.mu.Unlock()

	if err != nil {
		s.sendError(req.ID, fmt.Sprintf("commit: %v", err), 500)
		return
	}
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", TimeTaken: time.Since(start).Microseconds()})
}

func (s *Server) handleBuild(req SuggestRequest) {
	start := time.Now()
	s.mu.Lock()
	s.flushBufferedLocked()
	err := s.suggester.Build()
	count := s.suggester.Count()
	s.mu.Unlock()

	if err != nil {
		s.sendError(req.ID, fmt.Sprintf("build: %v", err), 500)
		return
	}
	s.sendResponse(StatusResponse{
		ID: req.ID, Status: "ok", Count: count,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

// handleReload swaps in a factory-built suggester. The replacement is fully
// constructed before the old instance is closed, so a failed reload leaves
// the server serving the previous index.
func (s *Server) handleReload(req SuggestRequest) {
	if s.factory == nil {
		s.sendError(req.ID, "reload unavailable: no suggester factory", 400)
		return
	}

	start := time.Now()
	s.mu.Lock()
	s.flushBufferedLocked()
	next, err := s.factory()
	if err == nil {
		err = next.Reload()
	}
	if err == nil {
		if cerr := s.suggester.Close(); cerr != nil {
			log.Warnf("closing previous suggester: %v", cerr)
		}
		s.suggester = next
	} else if next != nil {
		next.Close()
	}
	state := s.suggester.State().String()
	count := s.suggester.Count()
	s.mu.Unlock()

	if err != nil {
		s.sendError(req.ID, fmt.Sprintf("reload: %v", err), 500)
		return
	}
	s.sendResponse(StatusResponse{
		ID: req.ID, Status: "ok", State: state, Count: count,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) flushBufferedLocked() {
	for _, doc := range s.buffered {
		s.corpus.Add(doc)
	}
	s.buffered = s.buffered[:0]
}

func (s *Server) sendResponse(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
