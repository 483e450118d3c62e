package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"coursesum/internal/api"
	"coursesum/internal/config"
	"coursesum/internal/logging"
	"coursesum/internal/panel"
	"coursesum/internal/render"
	"coursesum/internal/services/llm"
	"coursesum/internal/summaries"
	"coursesum/internal/transcript"
	"coursesum/internal/workflow"
)

// maxPageBytes bounds the host page HTML accepted by /api/summarize.
const maxPageBytes = 8 << 20

type apiServer struct {
	bind       string
	logger     *slog.Logger
	daemon     *Daemon
	summarySvc *api.SummaryService
	keySvc     *api.APIKeyService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("paths.api_bind is empty")
	}

	srv := &apiServer{
		bind:       bind,
		logger:     logger,
		daemon:     d,
		summarySvc: api.NewSummaryService(d.collection),
		keySvc:     api.NewAPIKeyService(d.store, cfg.LLM.APIKey),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("GET /summaries", srv.handleSummariesPage)

	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/session", srv.handleSession)
	mux.HandleFunc("POST /api/summarize", srv.handleSummarize)
	mux.HandleFunc("POST /api/save", srv.handleSave)
	mux.HandleFunc("GET /api/summaries", srv.handleSummaries)
	mux.HandleFunc("DELETE /api/summaries", srv.handleClearSummaries)
	mux.HandleFunc("GET /api/summaries/{id}", srv.handleSummary)
	mux.HandleFunc("DELETE /api/summaries/{id}", srv.handleDeleteSummary)
	mux.HandleFunc("GET /api/panel", srv.handlePanel)
	mux.HandleFunc("PUT /api/panel", srv.handlePanelUpdate)
	mux.HandleFunc("GET /api/apikey", srv.handleAPIKey)
	mux.HandleFunc("PUT /api/apikey", srv.handleAPIKeyUpdate)

	srv.server = &http.Server{
		Handler:           srv.withRequestID(corsMiddleware(cfg.Paths.APIOrigins, authMiddleware(cfg.Paths.APIToken, mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Summaries wait on the LLM call.
		WriteTimeout: time.Duration(cfg.LLM.TimeoutSeconds)*time.Second + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		Bind:         status.Bind,
		StorePath:    status.StorePath,
		LockFilePath: status.LockFilePath,
		Model:        status.Model,
	}
	if items, err := s.summarySvc.List(r.Context()); err == nil {
		payload.SavedCount = len(items)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.session.View())
}

func (s *apiServer) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req api.SummarizeRequest
	if !s.decode(w, r, maxPageBytes, &req) {
		return
	}
	outcome, err := s.daemon.session.Summarize(r.Context(), workflow.Page{HTML: req.HTML, URL: req.URL})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SummarizeResponse{
		View:     s.daemon.session.View(),
		Markdown: outcome.Markdown,
		URL:      outcome.URL,
	})
}

// handleSave saves the summary in the request body, or the session's current
// result when the body carries none.
func (s *apiServer) handleSave(w http.ResponseWriter, r *http.Request) {
	var req api.SaveRequest
	if r.ContentLength != 0 && !s.decode(w, r, maxPageBytes, &req) {
		return
	}
	if strings.TrimSpace(req.Summary) == "" {
		rec, err := s.daemon.session.Save(r.Context())
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, api.SummaryItemResponse{Item: api.FromRecord(rec)})
		return
	}
	item, err := s.summarySvc.Save(r.Context(), req.Summary, req.URL)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.SummaryItemResponse{Item: item})
}

func (s *apiServer) handleSummaries(w http.ResponseWriter, r *http.Request) {
	items, err := s.summarySvc.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []api.SummaryItem{}
	}
	s.writeJSON(w, http.StatusOK, api.SummaryListResponse{Items: items})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	item, err := s.summarySvc.Describe(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		s.writeError(w, http.StatusNotFound, "summary not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.SummaryItemResponse{Item: *item})
}

func (s *apiServer) handleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	removed, err := s.summarySvc.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "summary not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleClearSummaries(w http.ResponseWriter, r *http.Request) {
	if err := s.summarySvc.Clear(r.Context()); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleSummariesPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.summarySvc.List(r.Context())
	if err != nil {
		http.Error(w, "Error loading summaries: "+err.Error(), http.StatusInternalServerError)
		return
	}
	cards := make([]render.CardData, 0, len(items))
	for _, item := range items {
		cards = append(cards, render.CardData{
			ID:        item.ID,
			Timestamp: item.Timestamp,
			URL:       item.URL,
			Summary:   item.Summary,
		})
	}
	page, err := s.daemon.renderer.Page(cards, time.Local)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *apiServer) handlePanel(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.PanelResponse{State: s.daemon.panel.State()})
}

func (s *apiServer) handlePanelUpdate(w http.ResponseWriter, r *http.Request) {
	var req api.PanelUpdateRequest
	if !s.decode(w, r, 64<<10, &req) {
		return
	}

	var (
		mode  panel.Mode
		theme panel.Theme
		err   error
	)
	if req.Position != nil && !req.Position.Complete() {
		s.writeError(w, http.StatusBadRequest, "position requires top and left")
		return
	}
	if req.Size != nil && !req.Size.Complete() {
		s.writeError(w, http.StatusBadRequest, "size requires width and height")
		return
	}
	if req.Mode != "" {
		if mode, err = panel.ParseMode(req.Mode); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Theme != "" {
		if theme, err = panel.ParseTheme(req.Theme); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctrl := s.daemon.panel
	if req.Position != nil {
		ctrl.DragEnd(panel.Position{
			Top:  panel.NormalizeLength(req.Position.Top),
			Left: panel.NormalizeLength(req.Position.Left),
		})
	}
	if req.Size != nil {
		ctrl.ResizeSettle(panel.Size{
			Width:  panel.NormalizeLength(req.Size.Width),
			Height: panel.NormalizeLength(req.Size.Height),
		})
	}
	if mode != "" {
		ctrl.SetMode(r.Context(), mode)
	}
	if theme != "" {
		ctrl.SetTheme(theme)
	}
	if req.ToggleMinimize {
		ctrl.ToggleMinimize(r.Context())
	}
	if req.ToggleTheme {
		ctrl.ToggleTheme()
	}
	ctrl.Flush()
	s.writeJSON(w, http.StatusOK, api.PanelResponse{State: ctrl.State()})
}

func (s *apiServer) handleAPIKey(w http.ResponseWriter, r *http.Request) {
	status, err := s.keySvc.Status(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *apiServer) handleAPIKeyUpdate(w http.ResponseWriter, r *http.Request) {
	var req api.APIKeyUpdateRequest
	if !s.decode(w, r, 4<<10, &req) {
		return
	}
	if err := s.keySvc.Set(r.Context(), req.Key); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.handleAPIKey(w, r)
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, limit int64, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeFailure reports a workflow error with the panel's status and output text.
func (s *apiServer) writeFailure(w http.ResponseWriter, err error) {
	desc := workflow.Describe(err)
	s.writeJSON(w, failureStatus(err), api.ErrorResponse{
		Error:  err.Error(),
		Status: desc.Status,
		Output: desc.Output,
	})
}

func failureStatus(err error) int {
	var (
		exErr     *transcript.ExtractionError
		statusErr *llm.HTTPStatusError
		transErr  *llm.TransportError
	)
	switch {
	case errors.Is(err, workflow.ErrBusy), errors.Is(err, workflow.ErrAlreadySaved):
		return http.StatusConflict
	case errors.As(err, &exErr),
		errors.Is(err, llm.ErrMissingAPIKey),
		errors.Is(err, summaries.ErrNothingToSave):
		return http.StatusBadRequest
	case errors.As(err, &statusErr),
		errors.As(err, &transErr),
		errors.Is(err, llm.ErrEmptyCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
