// Package handler exposes the quote wizard over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quoteflow/internal/registration/flow"
	"quoteflow/internal/registration/models"
	id "quoteflow/pkg/domain"
	"quoteflow/pkg/platform/httputil"
	"quoteflow/pkg/requestcontext"
)

// Sessions creates, resolves and ends quote sessions.
type Sessions interface {
	Create(ctx context.Context) (*flow.Session, error)
	Get(ctx context.Context, sessionID id.SessionID) (*flow.Session, error)
	End(ctx context.Context, sessionID id.SessionID) error
}

// TokenIssuer signs session bearer tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, sessionID id.SessionID) (string, error)
}

type Handler struct {
	sessions  Sessions
	tokens    TokenIssuer
	expiresIn int
	logger    *slog.Logger
}

// New creates a Handler. tokenTTLSeconds is reported to clients as expires_in.
func New(sessions Sessions, tokens TokenIssuer, tokenTTLSeconds int, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		tokens:    tokens,
		expiresIn: tokenTTLSeconds,
		logger:    logger,
	}
}

// RegisterPublic registers the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/v1/sessions", h.HandleCreateSession)
}

// Register registers the session routes. The parent router must apply the
// bearer token middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/session", h.HandleGetSession)
	r.Delete("/v1/session", h.HandleLogout)
	r.Post("/v1/session/entry", h.HandleSubmitEntry)
	r.Put("/v1/session/coverage", h.HandleChooseCoverage)
	r.Get("/v1/session/plans", h.HandleListPlans)
	r.Post("/v1/session/plan", h.HandleSelectPlan)
	r.Get("/v1/session/summary", h.HandleSummary)
	r.Post("/v1/session/keepalive", h.HandleKeepAlive)
}

// HandleCreateSession implements POST /v1/sessions.
//
// Output: { "session_id": "...", "token": "...", "token_type": "Bearer", "step": "entry", ... }
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, err := h.sessions.Create(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create session",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	token, err := h.tokens.Issue(ctx, sess.ID())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token",
			"error", err,
			"request_id", requestID,
		)
		_ = h.sessions.End(ctx, sess.ID())
		httputil.WriteError(w, err)
		return
	}

	view := sess.View()
	httputil.WriteJSON(w, http.StatusCreated, SessionCreatedResponse{
		SessionID:    sess.ID().String(),
		Token:        token,
		TokenType:    "Bearer",
		ExpiresIn:    h.expiresIn,
		Step:         view.Step,
		TimeLeft:     view.TimeLeft,
		TimeLeftText: view.TimeLeftText,
	})
}

// HandleGetSession implements GET /v1/session.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(sess.ID().String(), sess.View()))
}

// HandleSubmitEntry implements POST /v1/session/entry.
//
// Input: { "document_type": "DNI", "document_number": "12345678", "phone": "987654321",
// "accept_privacy": true, "accept_terms": true }
func (h *Handler) HandleSubmitEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := sess.SubmitEntry(ctx, req.Form()); err != nil {
		h.logger.WarnContext(ctx, "entry form rejected",
			"error", err,
			"request_id", requestID,
			"session_id", sess.ID().String(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(sess.ID().String(), sess.View()))
}

// HandleChooseCoverage implements PUT /v1/session/coverage.
//
// Input: { "target": "for_me" | "for_someone_else" }
func (h *Handler) HandleChooseCoverage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CoverageRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := sess.ChooseCoverage(models.CoverageTarget(req.Target)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(sess.ID().String(), sess.View()))
}

// HandleListPlans implements GET /v1/session/plans.
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	quotes, err := sess.Plans(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to list plans",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sess.ID().String(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPlansResponse(sess.Coverage(), quotes))
}

// HandleSelectPlan implements POST /v1/session/plan.
//
// Input: { "name": "Plan en Casa" }
func (h *Handler) HandleSelectPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SelectPlanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := sess.SelectPlan(ctx, req.Name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(sess.ID().String(), sess.View()))
}

// HandleSummary implements GET /v1/session/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sum, err := sess.Summary()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSummaryResponse(sum))
}

// HandleKeepAlive implements POST /v1/session/keepalive. Resolving the
// session already restarts its timer.
func (h *Handler) HandleKeepAlive(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(sess.ID().String(), sess.View()))
}

// HandleLogout implements DELETE /v1/session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := requestcontext.SessionID(ctx)

	if err := h.sessions.End(ctx, sessionID); err != nil {
		h.logger.ErrorContext(ctx, "failed to end session",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID.String(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the authenticated session of the request.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*flow.Session, bool) {
	ctx := r.Context()
	sess, err := h.sessions.Get(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to resolve session",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	return sess, true
}
