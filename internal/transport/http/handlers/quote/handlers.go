package quotehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsconsole/internal/domain/attachment"
	"opsconsole/internal/domain/quote"
	"opsconsole/internal/platform/metrics"
	"opsconsole/internal/transport/http/api"
	"opsconsole/internal/transport/http/middleware"
	"opsconsole/internal/transport/http/shared"
)

type Handler struct {
	Service     *quote.Service
	Attachments *attachment.Service
	Metrics     *metrics.Collector
}

func NewHandler(service *quote.Service, attachments *attachment.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Attachments: attachments, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/next-number", h.handleNextNumber)
		r.Post("/price", h.handlePrice)
		r.Get("/{quoteID}", h.handleGet)
		r.Put("/{quoteID}", h.handleUpdate)
		r.Delete("/{quoteID}", h.handleDelete)
		r.Get("/{quoteID}/pdf", h.handlePDF)
	})
}

type materialPayload struct {
	ID                string  `json:"id,omitempty"`
	Name              string  `json:"name"`
	PurchasePrice     float64 `json:"purchasePrice"`
	MarginPercent     float64 `json:"marginPercent"`
	MarginPln         float64 `json:"marginPln"`
	Quantity          float64 `json:"quantity"`
	IgnoreMinQuantity bool    `json:"ignoreMinQuantity"`
}

type activityPayload struct {
	ID                string  `json:"id,omitempty"`
	Name              string  `json:"name"`
	WorkTimeHours     float64 `json:"workTimeHours"`
	WorkTimeMinutes   float64 `json:"workTimeMinutes"`
	Price             float64 `json:"price"`
	MarginPercent     float64 `json:"marginPercent"`
	MarginPln         float64 `json:"marginPln"`
	IgnoreMinQuantity bool    `json:"ignoreMinQuantity"`
}

type quotePayload struct {
	DraftKey       string            `json:"draftKey,omitempty"`
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	ContractorCode string            `json:"contractorCode"`
	ContractorName string            `json:"contractorName"`
	ProductCode    string            `json:"productCode"`
	ProductName    string            `json:"productName"`
	MinQuantity    float64           `json:"minQuantity"`
	TotalQuantity  float64           `json:"totalQuantity"`
	Materials      []materialPayload `json:"materials"`
	Activities     []activityPayload `json:"productionActivities"`
}

func (p quotePayload) toDomain() quote.Quote {
	q := quote.Quote{
		Year:           p.Year,
		Month:          p.Month,
		ContractorCode: p.ContractorCode,
		ContractorName: p.ContractorName,
		ProductCode:    p.ProductCode,
		ProductName:    p.ProductName,
		MinQuantity:    p.MinQuantity,
		TotalQuantity:  p.TotalQuantity,
		Status:         quote.StatusDraft,
	}
	for _, m := range p.Materials {
		q.Materials = append(q.Materials, quote.Material{
			ID:                m.ID,
			Name:              m.Name,
			PurchasePrice:     m.PurchasePrice,
			Margin:            quote.MarginFromFields(m.MarginPercent, m.MarginPln),
			Quantity:          m.Quantity,
			IgnoreMinQuantity: m.IgnoreMinQuantity,
		})
	}
	for _, a := range p.Activities {
		q.Activities = append(q.Activities, quote.Activity{
			ID:                a.ID,
			Name:              a.Name,
			WorkTimeHours:     a.WorkTimeHours,
			WorkTimeMinutes:   a.WorkTimeMinutes,
			Price:             a.Price,
			Margin:            quote.MarginFromFields(a.MarginPercent, a.MarginPln),
			IgnoreMinQuantity: a.IgnoreMinQuantity,
		})
	}
	return q
}

// validate applies the data-model constraints shared by create and
// update: required names, non-negative amounts, minutes within an hour.
func (p quotePayload) validate() *shared.Validator {
	validator := shared.NewValidator()
	validator.Required("contractorName", p.ContractorName, "is required")
	validator.NonNegative("minQuantity", p.MinQuantity)
	validator.NonNegative("totalQuantity", p.TotalQuantity)
	for _, m := range p.Materials {
		validator.Required("materials.name", m.Name, "is required")
		validator.NonNegative("materials.purchasePrice", m.PurchasePrice)
		validator.NonNegative("materials.quantity", m.Quantity)
	}
	for _, a := range p.Activities {
		validator.Required("productionActivities.name", a.Name, "is required")
		validator.NonNegative("productionActivities.price", a.Price)
		if a.WorkTimeMinutes < 0 || a.WorkTimeMinutes > 59 {
			validator.Add("productionActivities.workTimeMinutes", "must be between 0 and 59")
		}
	}
	return validator
}

type quoteResponse struct {
	quote.Quote
	Pricing quote.Pricing `json:"pricing"`
}

func respond(q quote.Quote) quoteResponse {
	return quoteResponse{Quote: q, Pricing: quote.PriceQuote(q)}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year, month := shared.ParsePeriod(r)
	page := shared.ParsePagination(r, 50, 200)
	quotes, total, err := h.Service.List(r.Context(), year, month, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, quote.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quotes_failed", "failed to list quotes", requestID)
		return
	}
	api.Success(w, map[string]any{"quotes": quotes, "total": total}, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload quotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate().Reject(w, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), payload.toDomain())
	if err != nil {
		if errors.Is(err, quote.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quote_create_failed", "failed to create quote", requestID)
		return
	}
	h.Metrics.Count("quote_creates")

	// Files queued against the draft can be stored now that the quote
	// owns a real id.
	if payload.DraftKey != "" && h.Attachments != nil {
		if _, err := h.Attachments.Flush(r.Context(), payload.DraftKey, created.ID); err != nil {
			api.Fail(w, http.StatusInternalServerError, "attachment_flush_failed", "quote created but attachments failed", requestID)
			return
		}
	}
	api.Created(w, respond(created), requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	q, err := h.Service.Get(r.Context(), chi.URLParam(r, "quoteID"))
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quote_get_failed", "failed to load quote", requestID)
		return
	}
	api.Success(w, respond(q), requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload quotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate().Reject(w, requestID) {
		return
	}
	q := payload.toDomain()
	q.ID = chi.URLParam(r, "quoteID")

	updated, err := h.Service.Update(r.Context(), q)
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quote_update_failed", "failed to update quote", requestID)
		return
	}
	api.Success(w, respond(updated), requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "quoteID")); err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quote_delete_failed", "failed to delete quote", requestID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}

func (h *Handler) handleNextNumber(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year, month := shared.ParsePeriod(r)
	info, err := h.Service.NextNumber(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, quote.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "next_number_failed", "failed to compute next quote number", requestID)
		return
	}
	api.Success(w, info, requestID)
}

// handlePrice runs the pure pricing calculator on an unsaved quote so the
// form can preview totals while editing.
func (h *Handler) handlePrice(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload quotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	api.Success(w, quote.PriceQuote(payload.toDomain()), requestID)
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	q, err := h.Service.Get(r.Context(), chi.URLParam(r, "quoteID"))
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quote_pdf_failed", "failed to load quote", requestID)
		return
	}

	pdfBytes, err := quote.RenderPDF(q)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "quote_pdf_failed", "failed to render quote pdf", requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "quote-"+q.ID+".pdf"))
	_, _ = w.Write(pdfBytes)
}
