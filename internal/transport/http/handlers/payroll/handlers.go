package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAdmin).Get("/", h.handleList)
		r.With(middleware.RequireAuth).Get("/my", h.handleListMine)
		r.Route("/{payrollID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGet)
			r.With(middleware.RequireAuth).Get("/payslip", h.handlePayslip)
			r.With(middleware.RequireAdmin).Patch("/status", h.handleUpdateStatus)
			r.With(middleware.RequireAdmin).Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var input payroll.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("employee", input.EmployeeID, "is required")
	if input.Month < 1 || input.Month > 12 {
		validator.Add("month", "must be between 1 and 12")
	}
	if input.Year < 1 {
		validator.Add("year", "is required")
	}
	if input.BaseSalary == nil {
		validator.Add("baseSalary", "is required")
	} else {
		validator.Positive("baseSalary", *input.BaseSalary, "must be a positive amount")
	}
	if input.OvertimeHours < 0 {
		validator.Add("overtimeHours", "must not be negative")
	}
	if input.OvertimeRate != nil && *input.OvertimeRate <= 0 {
		validator.Add("overtimeRate", "must be a positive multiplier")
	}
	for i, d := range input.Deductions {
		if !payroll.ValidDeductionKind(d.Kind) {
			validator.Add(fmt.Sprintf("deductions[%d].type", i), "must be one of tax, insurance, loan, other")
		}
		if d.Amount < 0 {
			validator.Add(fmt.Sprintf("deductions[%d].amount", i), "must not be negative")
		}
	}
	if input.PaymentMethod != "" && !payroll.ValidPaymentMethod(input.PaymentMethod) {
		validator.Add("paymentMethod", "must be one of bank_transfer, check, cash")
	}
	if input.PaymentDate != "" {
		validator.Date("paymentDate", input.PaymentDate)
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.Create(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrEmployeeNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrDuplicatePeriod):
			api.Fail(w, http.StatusConflict, "payroll_exists", "payroll already exists for this employee and period", middleware.GetRequestID(r.Context()))
		default:
			log.Printf("payroll create failed: %v", err)
			api.Fail(w, http.StatusInternalServerError, "payroll_create_failed", "failed to create payroll", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.create", "payroll", rec.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, rec); err != nil {
		log.Printf("audit payroll.create failed: %v", err)
	}

	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payrolls", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.Service.ListForEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payrolls", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll", middleware.GetRequestID(r.Context()))
		return
	}

	if !auth.CanReadPayroll(user, rec.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not authorized to view this payroll", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	if !auth.CanReadPayroll(user, rec.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not authorized to view this payroll", middleware.GetRequestID(r.Context()))
		return
	}

	pdf, err := payroll.RenderPayslip(rec)
	if err != nil {
		log.Printf("payslip render failed: %v", err)
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s-%d-%d.pdf", rec.Employee.EmployeeID, rec.Year, rec.Month))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	payrollID := chi.URLParam(r, "payrollID")

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.UpdateStatus(r.Context(), payrollID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrInvalidStatus):
			api.Fail(w, http.StatusBadRequest, "invalid_status", "invalid status value", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrInvalidTransition):
			api.Fail(w, http.StatusBadRequest, "invalid_transition", "status may only move pending -> processed -> paid", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", middleware.GetRequestID(r.Context()))
		default:
			log.Printf("payroll status update failed: %v", err)
			api.Fail(w, http.StatusInternalServerError, "payroll_status_failed", "failed to update payroll status", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.status", "payroll", payrollID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": payload.Status}); err != nil {
		log.Printf("audit payroll.status failed: %v", err)
	}

	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	payrollID := chi.URLParam(r, "payrollID")

	if err := h.Service.Delete(r.Context(), payrollID); err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", middleware.GetRequestID(r.Context()))
			return
		}
		log.Printf("payroll delete failed: %v", err)
		api.Fail(w, http.StatusInternalServerError, "payroll_delete_failed", "failed to delete payroll", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.delete", "payroll", payrollID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		log.Printf("audit payroll.delete failed: %v", err)
	}

	api.Success(w, map[string]string{"status": "payroll deleted"}, middleware.GetRequestID(r.Context()))
}
