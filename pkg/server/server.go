package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/LujunWeng/suggestd/internal/logger"
	"github.com/LujunWeng/suggestd/internal/utils"
	"github.com/LujunWeng/suggestd/pkg/config"
	"github.com/LujunWeng/suggestd/pkg/model"
	"github.com/LujunWeng/suggestd/pkg/proposal"
)

// session is one live completion model plus the trigger point it was built at.
type session struct {
	model  *model.Model
	column int
}

// Server hosts completion sessions over msgpack IPC.
type Server struct {
	provider   proposal.Provider
	cfg        *config.Config
	configPath string

	sessions map[string]*session
	nextID   int

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder

	log          *log.Logger
	requestCount int
}

// NewServer creates a completion session server using stdin/stdout for IPC.
func NewServer(provider proposal.Provider, cfg *config.Config, configPath string) *Server {
	return newServer(provider, cfg, configPath, os.Stdin, os.Stdout)
}

func newServer(provider proposal.Provider, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	return &Server{
		provider:   provider,
		cfg:        cfg,
		configPath: configPath,
		sessions:   make(map[string]*session),
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		log:        logger.New("ipc"),
	}
}

// Start begins the decode loop. It returns nil on EOF.
func (s *Server) Start() error {
	s.log.Debug("Starting session server.")
	s.send(StatusReply{Status: "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	s.requestCount++

	switch req.Op {
	case "open":
		s.handleOpen(req)
	case "sync":
		s.handleSync(req)
	case "requery":
		s.handleRequery(req)
	case "close":
		s.handleClose(req)
	case "config":
		s.handleConfig(req)
	case "health":
		s.send(StatusReply{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

// handleOpen queries the provider at the trigger point and builds a model.
func (s *Server) handleOpen(req Request) {
	if req.Column < 1 {
		s.sendError(req.ID, "Missing or invalid 'col' parameter", 400)
		return
	}
	if len(s.sessions) >= s.cfg.Server.MaxSessions {
		s.sendError(req.ID, "Too many open sessions", 429)
		return
	}

	prefix := utils.TrailingWord(req.Line)
	if len(prefix) < s.cfg.Server.MinPrefix {
		s.sendError(req.ID, "Prefix too short", 400)
		return
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(req.ID, "Prefix too long", 400)
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	batch := s.provider.Complete(prefix, limit)
	items := proposal.Wrap(batch, s.provider, proposal.Position{Line: 1, Column: req.Column})

	ctx := model.LineContext{LeadingLineContent: req.Line}
	m := model.New(items, req.Column, ctx, s.cfg.Policy())

	s.nextID++
	sid := fmt.Sprintf("s%04d", s.nextID)
	s.sessions[sid] = &session{model: m, column: req.Column}

	s.respond(req.ID, sid, m, start)
}

// handleSync replaces the session's line context and returns the projection.
func (s *Server) handleSync(req Request) {
	sess, ok := s.sessions[req.Session]
	if !ok {
		s.sendError(req.ID, "Unknown session", 404)
		return
	}

	start := time.Now()
	sess.model.SetLineContext(model.LineContext{
		LeadingLineContent:  req.Line,
		CharacterCountDelta: req.Delta,
	})
	s.respond(req.ID, req.Session, sess.model, start)
}

// handleRequery adopts the items from complete batches, re-queries the
// provider with the current prefix and swaps in the merged model.
func (s *Server) handleRequery(req Request) {
	sess, ok := s.sessions[req.Session]
	if !ok {
		s.sendError(req.ID, "Unknown session", 404)
		return
	}

	start := time.Now()
	ctx := sess.model.LineContext()
	if req.Line != "" {
		ctx = model.LineContext{LeadingLineContent: req.Line, CharacterCountDelta: req.Delta}
	}

	adopted := sess.model.Adopt(sess.model.Incomplete())

	// Fresh items are produced at the current caret, not the trigger point;
	// the position keeps their overwrite window consistent under the model's
	// column adjustment.
	caret := sess.column + ctx.CharacterCountDelta
	prefix := utils.TrailingWord(ctx.LeadingLineContent)
	batch := s.provider.Complete(prefix, s.cfg.Server.MaxLimit)
	fresh := proposal.Wrap(batch, s.provider, proposal.Position{Line: 1, Column: caret})

	merged := append(adopted, fresh...)
	sess.model = model.New(merged, sess.column, ctx, s.cfg.Policy())

	s.respond(req.ID, req.Session, sess.model, start)
}

func (s *Server) handleClose(req Request) {
	if _, ok := s.sessions[req.Session]; !ok {
		s.sendError(req.ID, "Unknown session", 404)
		return
	}
	delete(s.sessions, req.Session)
	s.send(StatusReply{ID: req.ID, Status: "closed"})
}

// handleConfig updates the snippet policy at runtime and persists it.
func (s *Server) handleConfig(req Request) {
	if req.Policy == "" {
		s.sendError(req.ID, "Missing 'pol' parameter", 400)
		return
	}
	if err := s.cfg.Update(s.configPath, &req.Policy, nil); err != nil {
		s.log.Errorf("Persisting config: %v", err)
		s.sendError(req.ID, "Failed to persist config", 500)
		return
	}
	s.log.Debugf("Snippet policy set to %s", s.cfg.Model.SnippetPolicy)
	s.send(StatusReply{ID: req.ID, Status: "ok"})
}

func (s *Server) respond(id, sid string, m *model.Model, start time.Time) {
	projection := m.Items()
	payload := make([]ItemPayload, len(projection))
	for i, x := range projection {
		payload[i] = ItemPayload{
			Label:      x.Suggestion.Label,
			InsertText: x.Suggestion.InsertText,
			Kind:       x.Suggestion.Kind.String(),
			Score:      x.Score,
			Matches:    x.Matches,
		}
	}

	s.send(Response{
		ID:         id,
		Session:    sid,
		Items:      payload,
		Count:      len(payload),
		Incomplete: len(m.Incomplete()),
		TimeTaken:  time.Since(start).Microseconds(),
	})
}

func (s *Server) send(reply interface{}) {
	if err := s.encoder.Encode(reply); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorReply{ID: id, Error: message, Code: code})
}
