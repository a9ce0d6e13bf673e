package employeehandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/employee"
	"hrpay/internal/platform/email"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Store     *employee.Store
	Audit     *audit.Service
	Mailer    email.Mailer
	EmailFrom string
}

func NewHandler(store *employee.Store, auditSvc *audit.Service, mailer email.Mailer, emailFrom string) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Mailer: mailer, EmailFrom: emailFrom}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Get("/", h.handleList)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGet)
			r.With(middleware.RequireAuth).Put("/", h.handleUpdate)
			r.With(middleware.RequireAdmin).Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := employee.ListFilter{
		Department: strings.TrimSpace(r.URL.Query().Get("department")),
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	pagination := shared.ParsePagination(r, 10, 100)
	filter.Limit = pagination.Limit
	filter.Offset = pagination.Offset

	page, err := h.Store.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = (page.Total + filter.Limit - 1) / filter.Limit
	}
	api.Success(w, map[string]any{
		"employees":      page.Employees,
		"totalEmployees": page.Total,
		"totalPages":     totalPages,
		"currentPage":    filter.Offset/filter.Limit + 1,
	}, middleware.GetRequestID(r.Context()))
}

type createPayload struct {
	FirstName        string                    `json:"firstName"`
	LastName         string                    `json:"lastName"`
	Email            string                    `json:"email"`
	Phone            string                    `json:"phone"`
	Department       string                    `json:"department"`
	Position         string                    `json:"position"`
	Salary           float64                   `json:"salary"`
	DateOfBirth      string                    `json:"dateOfBirth"`
	DateOfJoining    string                    `json:"dateOfJoining"`
	Address          employee.Address          `json:"address"`
	EmergencyContact employee.EmergencyContact `json:"emergencyContact"`
	Skills           []string                  `json:"skills"`
	Education        []employee.Education      `json:"education"`
	IsActive         *bool                     `json:"isActive"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("firstName", payload.FirstName, "is required")
	validator.Required("lastName", payload.LastName, "is required")
	validator.Required("email", payload.Email, "is required")
	validator.Required("phone", payload.Phone, "is required")
	validator.Required("position", payload.Position, "is required")
	validator.Required("department", payload.Department, "is required")
	validator.Enum("department", payload.Department, employee.Departments, "must be one of the known departments")
	validator.Positive("salary", payload.Salary, "must be a positive amount")
	dateOfBirth, _ := validator.Date("dateOfBirth", payload.DateOfBirth)
	dateOfJoining, _ := validator.Date("dateOfJoining", payload.DateOfJoining)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp := employee.Employee{
		FirstName:        strings.TrimSpace(payload.FirstName),
		LastName:         strings.TrimSpace(payload.LastName),
		Email:            strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:            strings.TrimSpace(payload.Phone),
		Department:       payload.Department,
		Position:         strings.TrimSpace(payload.Position),
		Salary:           payload.Salary,
		DateOfBirth:      dateOfBirth,
		DateOfJoining:    dateOfJoining,
		Address:          payload.Address,
		EmergencyContact: payload.EmergencyContact,
		Skills:           payload.Skills,
		Education:        payload.Education,
		IsActive:         true,
	}
	if payload.IsActive != nil {
		emp.IsActive = *payload.IsActive
	}

	initialPassword, err := auth.GenerateInitialPassword()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	hash, err := auth.HashPassword(initialPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Store.CreateWithAccount(r.Context(), emp, hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.Fail(w, http.StatusConflict, "employee_exists", "employee email or id already exists", middleware.GetRequestID(r.Context()))
			return
		}
		log.Printf("employee create failed: %v", err)
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.create", "employee", created.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, created); err != nil {
		log.Printf("audit employee.create failed: %v", err)
	}

	body := "Welcome aboard. Your account is " + created.Email + " and your one-time password is " + initialPassword + ". Change it after your first login."
	if err := h.Mailer.Send(r.Context(), h.EmailFrom, created.Email, "Your HR account", body); err != nil {
		log.Printf("welcome email failed: %v", err)
	}

	api.Created(w, map[string]any{
		"employee":        created,
		"initialPassword": initialPassword,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if !auth.CanReadEmployee(user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not authorized to view this employee", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Store.Get(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if !auth.CanUpdateEmployee(user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not authorized to update this employee", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Store.Get(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	before := *emp

	patch := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := employee.ApplyUpdate(emp, patch, auth.IsAdmin(user)); err != nil {
		var fieldErr *employee.FieldError
		if errors.As(err, &fieldErr) {
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: fieldErr.Field, Reason: fieldErr.Reason}})
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.Update(r.Context(), employeeID, *emp); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.Fail(w, http.StatusConflict, "employee_exists", "employee email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		log.Printf("employee update failed: %v", err)
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.update", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, emp); err != nil {
		log.Printf("audit employee.update failed: %v", err)
	}

	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Store.Delete(r.Context(), employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		log.Printf("employee delete failed: %v", err)
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.delete", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		log.Printf("audit employee.delete failed: %v", err)
	}

	api.Success(w, map[string]string{"status": "employee removed"}, middleware.GetRequestID(r.Context()))
}
