package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"service-gateway-go/internal/client"
	"service-gateway-go/internal/config"
	"service-gateway-go/internal/model"
	"service-gateway-go/internal/route"
	"service-gateway-go/internal/service"
)

const deadURL = "http://127.0.0.1:1"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGateway builds a GatewayHandler whose routes point at the given base URLs.
func newTestGateway(t *testing.T, usersURL, ordersURL, membersURL string) (*GatewayHandler, *route.Table) {
	t.Helper()

	cfg := config.Default()
	cfg.Upstream.TimeoutSeconds = 2
	cfg.Upstream.IdleConnections = 10
	cfg.Services = config.ServicesConfig{UsersURL: usersURL, OrdersURL: ordersURL, ServiceAURL: membersURL}

	table, err := route.New(cfg)
	if err != nil {
		t.Fatalf("route.New: %v", err)
	}
	logger := discardLogger()
	svc := service.NewGatewayService(client.NewUpstreamClient(cfg, logger, nil), table, logger)
	return NewGatewayHandler(svc, logger), table
}

func jsonUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorEnvelope {
	t.Helper()
	var env model.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestGatewayHandler_Home(t *testing.T) {
	h, _ := newTestGateway(t, deadURL, deadURL, deadURL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Home(c); err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != Banner {
		t.Errorf("body = %q, want banner", rec.Body.String())
	}
}

func TestGatewayHandler_Relay_Success(t *testing.T) {
	users := jsonUpstream(t, http.StatusOK, `[{"id":1,"name":"Alice","role":"Dev"},{"id":2,"name":"Bob","role":"QA"}]`)
	orders := jsonUpstream(t, http.StatusOK, `[{"order_id":"O1001","user_id":1,"product":"Laptop"}]`)
	h, _ := newTestGateway(t, users.URL, orders.URL, deadURL)

	tests := []struct {
		route string
		want  string
	}{
		{route.Users, `[{"id":1,"name":"Alice","role":"Dev"},{"id":2,"name":"Bob","role":"QA"}]`},
		{route.Orders, `[{"order_id":"O1001","user_id":1,"product":"Laptop"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/"+tt.route, http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.Relay(tt.route)(c); err != nil {
				t.Fatalf("Relay() error = %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if rec.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
			if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
				t.Errorf("Content-Type = %q, want JSON", ct)
			}
		})
	}
}

func TestGatewayHandler_Relay_UpstreamStatusPassedThrough(t *testing.T) {
	users := jsonUpstream(t, http.StatusNotFound, `{"detail":"not found"}`)
	h, _ := newTestGateway(t, users.URL, deadURL, deadURL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Relay(route.Users)(c); err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec.Body.String() != `{"detail":"not found"}` {
		t.Errorf("body = %q, want upstream body", rec.Body.String())
	}
}

func TestGatewayHandler_Relay_Unreachable(t *testing.T) {
	h, _ := newTestGateway(t, deadURL, deadURL, deadURL)

	for _, name := range []string{route.Users, route.Orders} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/"+name, http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.Relay(name)(c); err != nil {
				t.Fatalf("Relay() error = %v", err)
			}
			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == "" {
				t.Fatal("expected non-empty error message")
			}
			if !strings.Contains(env.Error, deadURL) {
				t.Errorf("error = %q, want target URL %q", env.Error, deadURL)
			}
		})
	}
}

func TestGatewayHandler_Relay_NonJSONUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()
	h, _ := newTestGateway(t, srv.URL, deadURL, deadURL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Relay(route.Users)(c); err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if env := decodeEnvelope(t, rec); env.Error == "" {
		t.Error("expected non-empty error message")
	}
}

func TestGatewayHandler_Relay_ConcurrentRequests(t *testing.T) {
	const body = `{"users":[{"id":1,"username":"alice_dev"}]}`
	users := jsonUpstream(t, http.StatusOK, body)
	h, _ := newTestGateway(t, users.URL, deadURL, deadURL)

	e := echo.New()
	e.GET("/users", h.Relay(route.Users))

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/users", http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK || rec.Body.String() != body {
				errs <- fmt.Errorf("got %d %q", rec.Code, rec.Body.String())
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestGatewayHandler_CombinedData(t *testing.T) {
	members := jsonUpstream(t, http.StatusOK,
		`{"timestamp":1700000000.5,"users":[{"id":1,"username":"alice_dev","status":"ativo","since":"2023-01-15"},{"id":2,"username":"bob_tester","status":"inativo","since":"2022-11-20"}]}`)
	h, _ := newTestGateway(t, deadURL, deadURL, members.URL+"/users")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/combined-data", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CombinedData(c); err != nil {
		t.Fatalf("CombinedData() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var rep model.CombinedReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.Status != "SUCCESS" {
		t.Errorf("status = %q, want SUCCESS", rep.Status)
	}
	if rep.Source != members.URL+"/users" {
		t.Errorf("source = %q, want %q", rep.Source, members.URL+"/users")
	}
	if rep.ProcessedAt <= 0 {
		t.Errorf("processed_at = %v, want positive epoch seconds", rep.ProcessedAt)
	}
	want := []string{
		"Usuário alice_dev | Status: ativo | Membro desde: 2023-01-15",
		"Usuário bob_tester | Status: inativo | Membro desde: 2022-11-20",
	}
	if len(rep.Report) != len(want) {
		t.Fatalf("report = %q, want %q", rep.Report, want)
	}
	for i := range want {
		if rep.Report[i] != want[i] {
			t.Errorf("report[%d] = %q, want %q", i, rep.Report[i], want[i])
		}
	}
}

func TestGatewayHandler_CombinedData_EmptyReportIsArray(t *testing.T) {
	members := jsonUpstream(t, http.StatusOK, `{"users":[]}`)
	h, _ := newTestGateway(t, deadURL, deadURL, members.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/combined-data", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CombinedData(c); err != nil {
		t.Fatalf("CombinedData() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"report":[]`) {
		t.Errorf("body = %q, want empty report array", rec.Body.String())
	}
}

func TestGatewayHandler_CombinedData_Failures(t *testing.T) {
	missingField := jsonUpstream(t, http.StatusOK, `{"users":[{"username":"alice_dev","since":"2023-01-15"}]}`)
	badStatus := jsonUpstream(t, http.StatusInternalServerError, `{"error":"boom"}`)

	tests := []struct {
		name       string
		membersURL string
		wantStatus int
		wantInMsg  string
	}{
		{"unreachable", deadURL, http.StatusServiceUnavailable, deadURL},
		{"missing field", missingField.URL, http.StatusBadGateway, "status"},
		{"upstream error status", badStatus.URL, http.StatusBadGateway, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestGateway(t, deadURL, deadURL, tt.membersURL)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/combined-data", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.CombinedData(c); err != nil {
				t.Fatalf("CombinedData() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if !strings.Contains(env.Error, tt.wantInMsg) {
				t.Errorf("error = %q, want it to mention %q", env.Error, tt.wantInMsg)
			}
		})
	}
}

func TestGatewayHandler_mapError_Internal(t *testing.T) {
	h := &GatewayHandler{logger: discardLogger()}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fmt.Errorf("dispatch: %w", service.ErrUnknownRoute)
	if mErr := h.mapError(c, err); mErr != nil {
		t.Fatalf("mapError() returned error: %v", mErr)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if env := decodeEnvelope(t, rec); env.Error != "internal gateway error" {
		t.Errorf("error = %q, want %q", env.Error, "internal gateway error")
	}
}

func TestGatewayHandler_mapError_Kinds(t *testing.T) {
	tests := []struct {
		kind service.Kind
		want int
	}{
		{service.KindUnreachable, http.StatusServiceUnavailable},
		{service.KindInvalidPayload, http.StatusBadGateway},
		{service.KindBadStatus, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			h := &GatewayHandler{logger: discardLogger()}

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/users", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := &service.UpstreamError{Kind: tt.kind, Route: "users", URL: "http://users-service:5000/users", Err: errors.New("x")}
			if mErr := h.mapError(c, err); mErr != nil {
				t.Fatalf("mapError() returned error: %v", mErr)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
