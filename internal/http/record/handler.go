package record

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/record"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc       *record.Service
	importSvc *importer.Service
}

func NewHandler(svc *record.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

// Routes expects to be mounted under a pattern containing {kind}.
func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.AllowContentType("application/json")).Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
}

type createRecordRequest struct {
	Amount        record.Amount `json:"amount"`
	Label         string        `json:"label"`
	Date          string        `json:"date"`
	PaymentMethod string        `json:"payment_method"`
	Comment       string        `json:"comment"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	kind, err := record.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := req.Amount.Cents()
	if err != nil {
		respond.Error(w, r, fmt.Errorf("%w: %w", record.ErrInvalid, err))
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), record.CreateParams{
		Kind:          kind,
		Amount:        amount,
		Label:         req.Label,
		PaymentMethod: req.PaymentMethod,
		Comment:       req.Comment,
		Date:          date,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(*rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind, err := record.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	records, err := h.svc.List(r.Context(), auth.UserID(r.Context()), kind)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(records))
}

type importResponse struct {
	Imported int              `json:"imported"`
	Records  []recordResponse `json:"records"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	kind, err := record.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(kind, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.CreateBatch(r.Context(), auth.UserID(r.Context()), kind, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{Imported: len(created), Records: make([]recordResponse, 0, len(created))}
	for _, rec := range created {
		resp.Records = append(resp.Records, toResponse(*rec))
	}

	respond.JSON(w, http.StatusCreated, resp)
}
