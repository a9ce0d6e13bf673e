package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hrpay/internal/app/server"
	"hrpay/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		MigrationsDir:      "../../../../migrations",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func TestEmployeeAndPayrollJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID, initialPassword := createEmployee(t, client, ts.URL, adminToken, employeeEmail)

	employeeToken := login(t, client, ts.URL, employeeEmail, initialPassword)

	// The employee sees their own record.
	resp := getJSON(t, client, ts.URL+"/api/v1/employees/"+employeeID, employeeToken)
	var ownRecord map[string]any
	if err := json.Unmarshal(resp.Data, &ownRecord); err != nil {
		t.Fatalf("failed to decode employee response: %v", err)
	}
	if ownRecord["employeeId"] != "EMP001" {
		t.Fatalf("expected first employee to be EMP001, got %v", ownRecord["employeeId"])
	}

	// Self-update may change contact details but never pay or department.
	resp = putJSON(t, client, ts.URL+"/api/v1/employees/"+employeeID, employeeToken, map[string]any{
		"phone":      "555-0102",
		"salary":     99999,
		"department": "Finance",
	})
	var updated map[string]any
	if err := json.Unmarshal(resp.Data, &updated); err != nil {
		t.Fatalf("failed to decode update response: %v", err)
	}
	if updated["phone"] != "555-0102" {
		t.Fatalf("expected phone to change, got %v", updated["phone"])
	}
	if updated["salary"].(float64) != 4000 {
		t.Fatalf("expected salary to stay at 4000, got %v", updated["salary"])
	}
	if updated["department"] != "IT" {
		t.Fatalf("expected department to stay IT, got %v", updated["department"])
	}

	payrollID := createPayroll(t, client, ts.URL, adminToken, employeeID)

	// Creating a second record for the same period must conflict.
	postJSONStatus(t, client, ts.URL+"/api/v1/payroll", adminToken, map[string]any{
		"employee":   employeeID,
		"month":      1,
		"year":       2025,
		"baseSalary": 4000,
	}, http.StatusConflict)

	// The employee sees their own payroll history.
	resp = getJSON(t, client, ts.URL+"/api/v1/payroll/my", employeeToken)
	var mine []map[string]any
	if err := json.Unmarshal(resp.Data, &mine); err != nil {
		t.Fatalf("failed to decode payroll list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected one payroll record, got %d", len(mine))
	}

	if status := updatePayrollStatus(t, client, ts.URL, adminToken, payrollID, "processed"); status != "processed" {
		t.Fatalf("expected status processed, got %s", status)
	}
	patchJSONStatus(t, client, ts.URL+"/api/v1/payroll/"+payrollID+"/status", adminToken,
		map[string]any{"status": "archived"}, http.StatusBadRequest)
	patchJSONStatus(t, client, ts.URL+"/api/v1/payroll/"+payrollID+"/status", adminToken,
		map[string]any{"status": "pending"}, http.StatusBadRequest)
	if status := updatePayrollStatus(t, client, ts.URL, adminToken, payrollID, "paid"); status != "paid" {
		t.Fatalf("expected status paid, got %s", status)
	}

	downloadPayslip(t, client, ts.URL, employeeToken, payrollID)

	// Deleting the employee removes the login and cascades to payroll.
	deleteJSON(t, client, ts.URL+"/api/v1/employees/"+employeeID, adminToken)
	getJSONStatus(t, client, ts.URL+"/api/v1/payroll/"+payrollID, adminToken, http.StatusNotFound)
	postJSONStatus(t, client, ts.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    employeeEmail,
		"password": initialPassword,
	}, http.StatusUnauthorized)
}

func TestEmployeeCannotReadOtherRecords(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	nano := time.Now().UnixNano()
	firstID, firstPassword := createEmployee(t, client, ts.URL, adminToken, fmt.Sprintf("first-%d@example.com", nano))
	secondID, _ := createEmployee(t, client, ts.URL, adminToken, fmt.Sprintf("second-%d@example.com", nano))

	firstEmail := fmt.Sprintf("first-%d@example.com", nano)
	firstToken := login(t, client, ts.URL, firstEmail, firstPassword)

	getJSONStatus(t, client, ts.URL+"/api/v1/employees/"+secondID, firstToken, http.StatusForbidden)
	getJSONStatus(t, client, ts.URL+"/api/v1/employees", firstToken, http.StatusForbidden)
	postJSONStatus(t, client, ts.URL+"/api/v1/payroll", firstToken, map[string]any{
		"employee":   firstID,
		"month":      2,
		"year":       2025,
		"baseSalary": 4000,
	}, http.StatusForbidden)

	deleteJSON(t, client, ts.URL+"/api/v1/employees/"+firstID, adminToken)
	deleteJSON(t, client, ts.URL+"/api/v1/employees/"+secondID, adminToken)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) (string, string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/employees", token, map[string]any{
		"firstName":     "Journey",
		"lastName":      "Tester",
		"email":         email,
		"phone":         "555-0100",
		"department":    "IT",
		"position":      "Engineer",
		"salary":        4000,
		"dateOfBirth":   "1990-04-15",
		"dateOfJoining": "2023-02-01",
	})
	var payload struct {
		Employee        map[string]any `json:"employee"`
		InitialPassword string         `json:"initialPassword"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode employee response: %v", err)
	}
	id, _ := payload.Employee["id"].(string)
	if id == "" {
		t.Fatal("expected employee id")
	}
	if payload.InitialPassword == "" {
		t.Fatal("expected initial password")
	}
	return id, payload.InitialPassword
}

func createPayroll(t *testing.T, client *http.Client, baseURL, token, employeeID string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/payroll", token, map[string]any{
		"employee":      employeeID,
		"month":         1,
		"year":          2025,
		"baseSalary":    4000,
		"overtimeHours": 10,
		"bonus":         100,
		"deductions": []map[string]any{
			{"type": "tax", "description": "income tax", "amount": 200},
		},
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode payroll response: %v", err)
	}
	if net := payload["netSalary"].(float64); net != 4275 {
		t.Fatalf("expected net salary 4275, got %v", net)
	}
	if total := payload["totalDeductions"].(float64); total != 200 {
		t.Fatalf("expected total deductions 200, got %v", total)
	}
	if payload["status"] != "pending" {
		t.Fatalf("expected new payroll to be pending, got %v", payload["status"])
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected payroll id")
	}
	return id
}

func updatePayrollStatus(t *testing.T, client *http.Client, baseURL, token, payrollID, status string) string {
	t.Helper()
	resp := patchJSON(t, client, baseURL+"/api/v1/payroll/"+payrollID+"/status", token, map[string]any{
		"status": status,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode status response: %v", err)
	}
	got, _ := payload["status"].(string)
	return got
}

func downloadPayslip(t *testing.T, client *http.Client, baseURL, token, payrollID string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/payroll/"+payrollID+"/payslip", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("payslip request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for payslip, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read payslip: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if want > 0 {
		if resp.StatusCode != want {
			t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
		}
	} else if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, 0)
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, want)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body, 0)
}

func patchJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPatch, url, token, body, 0)
}

func patchJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPatch, url, token, body, want)
}

func deleteJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, token, nil, 0)
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, 0)
}

func getJSONStatus(t *testing.T, client *http.Client, url, token string, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, want)
}
