package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsconsole/internal/domain/payroll"
	"opsconsole/internal/platform/metrics"
	"opsconsole/internal/transport/http/api"
	"opsconsole/internal/transport/http/middleware"
	"opsconsole/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Metrics *metrics.Collector
}

func NewHandler(service *payroll.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/records", h.handleListRecords)
		r.Put("/records", h.handleSaveRecords)
		r.Post("/records/recompute", h.handleRecompute)
		r.Get("/categories", h.handleListCategories)
		r.Post("/categories", h.handleCreateCategory)
		r.Delete("/categories/{categoryName}", h.handleDeleteCategory)
	})
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year, month := shared.ParsePeriod(r)
	records, err := h.Service.Records(r.Context(), payroll.Period{Year: year, Month: month})
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll_records_failed", "failed to list payroll records", requestID)
		return
	}
	api.Success(w, map[string]any{
		"year":    year,
		"month":   month,
		"records": records,
	}, requestID)
}

type savePayload struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Records []payroll.Record `json:"records"`
}

func (h *Handler) handleSaveRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload savePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	// A submitted "hours:minutes" string wins over the numeric field.
	for i := range payload.Records {
		payload.Records[i] = payroll.ApplyHoursText(payload.Records[i], payload.Records[i].HoursWorkedTime)
	}

	validator := shared.NewValidator()
	for _, record := range payload.Records {
		validator.Required("employeeId", record.EmployeeID, "is required")
		validator.NonNegative("hourlyRate", record.HourlyRate)
		validator.NonNegative("hoursWorked", record.HoursWorked)
		validator.NonNegative("bonus", record.Bonus)
		validator.NonNegative("sickLeavePay", record.SickLeavePay)
		validator.NonNegative("bankTransfer", record.BankTransfer)
		for _, d := range record.PayrollDeductions {
			validator.Required("category", d.Category, "is required")
			validator.NonNegative("amount", d.Amount)
		}
	}
	if validator.Reject(w, requestID) {
		return
	}

	period := payroll.Period{Year: payload.Year, Month: payload.Month}
	if err := h.Service.Save(r.Context(), period, payload.Records); err != nil {
		if errors.Is(err, payroll.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll_save_failed", "failed to save payroll records", requestID)
		return
	}
	h.Metrics.Count("payroll_saves")
	api.Success(w, map[string]int{"saved": len(payload.Records)}, requestID)
}

// handleRecompute refreshes derived fields without persisting anything, so
// the client can show consistent totals while the user edits.
func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var records []payroll.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	for i := range records {
		records[i] = payroll.ApplyHoursText(records[i], records[i].HoursWorkedTime)
		records[i] = payroll.Recompute(records[i])
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "categories_failed", "failed to list categories", requestID)
		return
	}
	api.Success(w, categories, requestID)
}

type categoryPayload struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "is required")
	if validator.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreateCategory(r.Context(), payload.Name)
	if err != nil {
		if errors.Is(err, payroll.ErrCategoryExists) {
			api.Fail(w, http.StatusConflict, "category_exists", "category already exists", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "category_create_failed", "failed to create category", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id, "name": payroll.NormalizeCategory(payload.Name)}, requestID)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	name := chi.URLParam(r, "categoryName")
	affected, err := h.Service.DeleteCategory(r.Context(), name)
	if err != nil {
		if errors.Is(err, payroll.ErrCategoryNotFound) {
			api.Fail(w, http.StatusNotFound, "category_not_found", "category not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "category_delete_failed", "failed to delete category", requestID)
		return
	}
	h.Metrics.Count("category_cascades")
	api.Success(w, map[string]int64{"affectedRecords": affected}, requestID)
}
