package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/idelcare/nursebot/dispatch"
	"github.com/idelcare/nursebot/model"
	"github.com/idelcare/nursebot/orchestrator"
	"github.com/idelcare/nursebot/store"
	"github.com/idelcare/nursebot/voice"
	"go.uber.org/zap"
)

const sessionCookie = "nursebot_session"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	SessionID      string `json:"sessionId"`
	Reply          string `json:"reply"`
	ActionFeedback string `json:"actionFeedback,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	Intent         string `json:"intent"`
	ActionRequired bool   `json:"actionRequired"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the orchestration core over HTTP: one text endpoint, one
// voice endpoint. Each browser session gets its own conversation, so
// pending actions never leak across operators.
type Server struct {
	orc         *orchestrator.Orchestrator
	dispatcher  *dispatch.Dispatcher
	transcriber voice.Transcriber
	readStore   *store.MemoryStore
	settings    model.Settings
	operator    *model.SessionUser

	mu            sync.Mutex
	conversations map[string]*dispatch.Conversation
}

func New(orc *orchestrator.Orchestrator, dispatcher *dispatch.Dispatcher, transcriber voice.Transcriber, readStore *store.MemoryStore, settings model.Settings, operator *model.SessionUser) *Server {
	return &Server{
		orc:           orc,
		dispatcher:    dispatcher,
		transcriber:   transcriber,
		readStore:     readStore,
		settings:      settings,
		operator:      operator,
		conversations: make(map[string]*dispatch.Conversation),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/voice", s.handleVoice)
	return r
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	sid := s.sessionID(r, w)
	resp := s.runTurn(r, sid, req.Message, "")
	s.writeJSON(w, resp)
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "audio file is required (field 'file')")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not read audio file")
		return
	}

	ctx, cancel := contextWithDeadline(r)
	defer cancel()

	transcript, err := s.transcriber.Transcribe(ctx, audio, header.Header.Get("Content-Type"))
	if err != nil {
		// Voice capture is the start of the pipeline: nothing useful to
		// fall back to, so the error surfaces to the caller.
		logger.Error("Transcription failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "La transcription audio a échoué. Veuillez réessayer.")
		return
	}

	sid := s.sessionID(r, w)
	resp := s.runTurn(r, sid, transcript, transcript)
	s.writeJSON(w, resp)
}

func (s *Server) runTurn(r *http.Request, sid, message, transcript string) ChatResponse {
	ctx, cancel := contextWithDeadline(r)
	defer cancel()

	snap := s.readStore.Snapshot(s.operator, s.settings)
	resp := s.orc.Execute(ctx, message, snap)
	feedback := s.dispatcher.Dispatch(ctx, s.conversation(sid), message, resp, snap)

	return ChatResponse{
		SessionID:      sid,
		Reply:          resp.Reply,
		ActionFeedback: feedback,
		Transcript:     transcript,
		Intent:         string(resp.Intent),
		ActionRequired: resp.ActionRequired,
	}
}

func (s *Server) conversation(sid string) *dispatch.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[sid]
	if !ok {
		conv = dispatch.NewConversation()
		s.conversations[sid] = conv
	}
	return conv
}

func (s *Server) sessionID(r *http.Request, w http.ResponseWriter) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func contextWithDeadline(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 180*time.Second)
}
