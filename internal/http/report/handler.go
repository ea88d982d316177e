package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/day", h.day)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ref := h.now()

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		ref = t
	}

	d, err := h.svc.Dashboard(r.Context(), auth.UserID(r.Context()), ref)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) day(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("date")
	if s == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := h.svc.Day(r.Context(), auth.UserID(r.Context()), date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, summary)
}
