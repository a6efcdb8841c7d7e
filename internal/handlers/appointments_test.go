package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"appointments-server/internal/appointments"
	"appointments-server/internal/models"
	"appointments-server/internal/repository"
	"appointments-server/internal/routes"
	"appointments-server/internal/services"
)

type apiResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	clock := appointments.SystemClock()
	engine := appointments.NewEngine(store, clock)
	managers := services.NewManagerService(store)

	router := gin.New()
	routes.SetupRoutes(router, store, engine, clock, managers)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
}

func createBody(sender, recipient string) map[string]string {
	return map[string]string{
		"sender":    sender,
		"recipient": recipient,
		"name":      "Kickoff meeting",
		"date":      tomorrow(),
		"time":      "10:00",
	}
}

func createAppointment(t *testing.T, router *gin.Engine) models.Appointment {
	t.Helper()
	w, resp := doRequest(t, router, http.MethodPost, "/api/v1/appointments",
		createBody("sender@example.com", "recipient@example.com"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create appointment: status %d, error %q", w.Code, resp.Error)
	}
	var appt models.Appointment
	if err := json.Unmarshal(resp.Data, &appt); err != nil {
		t.Fatalf("unmarshal appointment: %v", err)
	}
	return appt
}

func subscribeManager(t *testing.T, router *gin.Engine, email string) {
	t.Helper()
	w, resp := doRequest(t, router, http.MethodPost, "/api/v1/managers",
		map[string]string{"email": email}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("subscribe manager: status %d, error %q", w.Code, resp.Error)
	}
}

func TestCreateAppointment(t *testing.T) {
	router := setupRouter(t)

	appt := createAppointment(t, router)
	if appt.ID == "" {
		t.Fatal("empty appointment id")
	}
	if appt.Status != models.StatusCreated {
		t.Fatalf("status = %s, want %s", appt.Status, models.StatusCreated)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	router := setupRouter(t)

	longName := ""
	for i := 0; i < 49; i++ {
		longName += "x"
	}
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing sender", map[string]string{"recipient": "r@example.com", "name": "X", "date": tomorrow(), "time": "10:00"}},
		{"malformed sender", map[string]string{"sender": "not-an-email", "recipient": "r@example.com", "name": "X", "date": tomorrow(), "time": "10:00"}},
		{"name too long", map[string]string{"sender": "s@example.com", "recipient": "r@example.com", "name": longName, "date": tomorrow(), "time": "10:00"}},
		{"malformed date", map[string]string{"sender": "s@example.com", "recipient": "r@example.com", "name": "X", "date": "11-03-2026", "time": "10:00"}},
		{"past date", map[string]string{"sender": "s@example.com", "recipient": "r@example.com", "name": "X", "date": yesterday, "time": "10:00"}},
		{"sender equals recipient", map[string]string{"sender": "s@example.com", "recipient": "s@example.com", "name": "X", "date": tomorrow(), "time": "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doRequest(t, router, http.MethodPost, "/api/v1/appointments", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestRescheduleEndpoint(t *testing.T) {
	router := setupRouter(t)
	appt := createAppointment(t, router)

	path := fmt.Sprintf("/api/v1/appointments/%s/reschedule", appt.ID)
	newDate := time.Now().AddDate(0, 0, 2).Format(models.DateLayout)

	t.Run("by participant", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodPatch, path,
			map[string]string{"sender": "sender@example.com", "newDate": newDate, "newTime": "14:30"}, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, error %q", w.Code, resp.Error)
		}
		var updated models.Appointment
		if err := json.Unmarshal(resp.Data, &updated); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if updated.Status != models.StatusRescheduled {
			t.Fatalf("status = %s, want %s", updated.Status, models.StatusRescheduled)
		}
		if updated.Date.String() != newDate {
			t.Fatalf("date = %s, want %s", updated.Date, newDate)
		}
	})

	t.Run("by stranger", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPatch, path,
			map[string]string{"sender": "stranger@example.com", "newDate": newDate, "newTime": "14:30"}, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPatch, "/api/v1/appointments/no-such-id/reschedule",
			map[string]string{"sender": "sender@example.com", "newDate": newDate, "newTime": "14:30"}, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestSignEndpoint(t *testing.T) {
	router := setupRouter(t)
	appt := createAppointment(t, router)
	path := fmt.Sprintf("/api/v1/appointments/%s/sign", appt.ID)

	t.Run("participant without manager role", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPatch, path,
			map[string]string{"sender": "recipient@example.com", "signature": "accepted"}, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPatch, path,
			map[string]string{"sender": "recipient@example.com", "signature": "maybe"}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("manager participant accepts", func(t *testing.T) {
		subscribeManager(t, router, "recipient@example.com")

		w, resp := doRequest(t, router, http.MethodPatch, path,
			map[string]string{"sender": "recipient@example.com", "signature": "accepted"}, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, error %q", w.Code, resp.Error)
		}
		var updated models.Appointment
		if err := json.Unmarshal(resp.Data, &updated); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if updated.Status != models.StatusApproved {
			t.Fatalf("status = %s, want %s", updated.Status, models.StatusApproved)
		}
	})

	t.Run("already resolved", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPatch, path,
			map[string]string{"sender": "recipient@example.com", "signature": "rejected"}, nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})
}

func TestRemoveEndpoint(t *testing.T) {
	router := setupRouter(t)
	appt := createAppointment(t, router)
	subscribeManager(t, router, "sender@example.com")

	signPath := fmt.Sprintf("/api/v1/appointments/%s/sign", appt.ID)
	removePath := fmt.Sprintf("/api/v1/appointments/%s", appt.ID)

	t.Run("pending appointment cannot be removed", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodDelete, removePath, nil,
			map[string]string{"X-Requestor": "sender@example.com"})
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})

	if w, resp := doRequest(t, router, http.MethodPatch, signPath,
		map[string]string{"sender": "sender@example.com", "signature": "rejected"}, nil); w.Code != http.StatusOK {
		t.Fatalf("sign: status %d, error %q", w.Code, resp.Error)
	}

	t.Run("missing requestor identity", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodDelete, removePath, nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("rejected appointment removed by manager participant", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodDelete, removePath, nil,
			map[string]string{"X-Requestor": "sender@example.com"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, error %q", w.Code, resp.Error)
		}

		w, _ = doRequest(t, router, http.MethodGet, removePath, nil, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("get after remove: status = %d, want 404", w.Code)
		}
	})
}

func TestQueryEndpoint(t *testing.T) {
	router := setupRouter(t)
	createAppointment(t, router)

	t.Run("by status", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodGet, "/api/v1/appointments/query?attribute=status&value=created", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, error %q", w.Code, resp.Error)
		}
		var appts []models.Appointment
		if err := json.Unmarshal(resp.Data, &appts); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(appts) != 1 {
			t.Fatalf("got %d appointments, want 1", len(appts))
		}
	})

	t.Run("by requestor alias", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodGet, "/api/v1/appointments/query?attribute=requestor&value=sender@example.com", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, error %q", w.Code, resp.Error)
		}
		var appts []models.Appointment
		if err := json.Unmarshal(resp.Data, &appts); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(appts) != 1 {
			t.Fatalf("got %d appointments, want 1", len(appts))
		}
	})

	t.Run("unknown attribute", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/appointments/query?attribute=color&value=blue", nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing value", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/appointments/query?attribute=status", nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestListManagers(t *testing.T) {
	router := setupRouter(t)
	subscribeManager(t, router, "boss@example.com")

	w, resp := doRequest(t, router, http.MethodGet, "/api/v1/managers", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, error %q", w.Code, resp.Error)
	}
	var managers []models.User
	if err := json.Unmarshal(resp.Data, &managers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(managers) != 1 || managers[0].Email != "boss@example.com" {
		t.Fatalf("unexpected roster: %+v", managers)
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
