package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"github.com/claimwise/claimwise/internal/llm"
	"github.com/claimwise/claimwise/internal/model"
)

// Checker runs the fact-checking pipeline over one input document.
type Checker interface {
	CheckText(ctx context.Context, text string) ([]model.VerificationRecord, error)
}

// Transcriber converts audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Server is the inbound HTTP API.
type Server struct {
	router      *mux.Router
	checker     Checker
	transcriber Transcriber // nil disables the speech endpoint
	config      model.HTTPConfig
	verbose     bool
}

// New creates a server with its routes registered. transcriber may be
// nil when speech-to-text is not configured.
func New(checker Checker, transcriber Transcriber, config model.HTTPConfig, verbose bool) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		checker:     checker,
		transcriber: transcriber,
		config:      config,
		verbose:     verbose,
	}

	s.router.Use(corsMiddleware(config.AllowOrigin))

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/api/speech/process-audio/", s.handleSpeech).Methods(http.MethodPost, http.MethodOptions)

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

type chatRequest struct {
	InputText string `json:"input_text"`
}

type chatResponse struct {
	FactsChecked []model.VerificationRecord `json:"facts_checked"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.InputText) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "input_text is required"})
		return
	}

	records, err := s.checker.CheckText(r.Context(), req.InputText)
	if err != nil {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "fact check failed: %v\n", err)
		}
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{FactsChecked: records})
}

type speechResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "speech-to-text is not configured"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multipart field 'file' is required"})
		return
	}
	defer func() { _ = file.Close() }()

	text, err := s.transcriber.Transcribe(r.Context(), file)
	if err != nil {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "transcription failed: %v\n", err)
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, speechResponse{Text: text})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the claimwise API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps pipeline failures to response codes: upstream and
// schema failures from the hosted model are gateway errors, anything
// else is internal.
func statusForError(err error) int {
	var schemaErr *llm.SchemaError
	var upstreamErr *llm.UpstreamError
	if errors.As(err, &schemaErr) || errors.As(err, &upstreamErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
