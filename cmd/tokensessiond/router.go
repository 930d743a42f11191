package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tokensession/pkg/httpserver"
	"github.com/dmitrymomot/tokensession/pkg/logger"
	"github.com/dmitrymomot/tokensession/pkg/requestid"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

// maxValueSize bounds the JSON body of PUT /session/{key}.
const maxValueSize = 64 << 10

func newRouter(m *session.Manager, log *slog.Logger, ready http.Handler) http.Handler {
	h := &handlers{manager: m, log: log}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Method(http.MethodGet, "/readyz", ready)

	r.Route("/session", func(r chi.Router) {
		r.Use(m.Middleware)
		r.Get("/", h.show)
		r.Put("/{key}", h.put)
		r.Delete("/{key}", h.remove)
		r.Post("/regenerate", h.regenerate)
		r.Post("/destroy", h.destroy)
	})

	return r
}

type handlers struct {
	manager *session.Manager
	log     *slog.Logger
}

func (h *handlers) show(w http.ResponseWriter, r *http.Request) {
	h.writeSession(w, r, http.StatusOK)
}

func (h *handlers) put(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var value any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxValueSize)).Decode(&value); err != nil {
		http.Error(w, "invalid JSON value", http.StatusBadRequest)
		return
	}

	sess.Set(chi.URLParam(r, "key"), value)
	h.writeSession(w, r, http.StatusOK)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	session.MustFromContext(r.Context()).Delete(chi.URLParam(r, "key"))
	h.writeSession(w, r, http.StatusOK)
}

func (h *handlers) regenerate(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := h.manager.RegenerateSession(r.Context(), w, sess); err != nil {
		h.log.ErrorContext(r.Context(), "failed to regenerate session", logger.Error(err))
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	h.writeSession(w, r, http.StatusOK)
}

func (h *handlers) destroy(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := h.manager.DestroySession(r.Context(), w, sess); err != nil {
		h.log.ErrorContext(r.Context(), "failed to destroy session", logger.Error(err))
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) writeSession(w http.ResponseWriter, r *http.Request, status int) {
	sess := session.MustFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(sess); err != nil {
		h.log.ErrorContext(r.Context(), "failed to encode session", logger.Error(err))
	}
}
