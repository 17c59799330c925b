package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"furniture-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	claims *utils.Claims
	err    error
	got    string
}

func (f *fakeVerifier) Verify(token string) (*utils.Claims, error) {
	f.got = token
	return f.claims, f.err
}

func claimsEcho(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	token, _ := utils.GetTokenFromContext(r.Context())
	_, _ = fmt.Fprintf(w, "%d:%s:%s", claims.UserID, claims.Role, token)
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Message
}

func TestRequireAuth(t *testing.T) {
	valid := &utils.Claims{UserID: 9, Role: utils.RoleCustomer}

	tests := []struct {
		name        string
		header      string
		verifier    *fakeVerifier
		wantStatus  int
		wantMessage string
		wantBody    string
	}{
		{name: "missing header", verifier: &fakeVerifier{}, wantStatus: http.StatusUnauthorized, wantMessage: "Access token required"},
		{name: "wrong scheme", header: "Token abc", verifier: &fakeVerifier{}, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token format. Use: Bearer <token>"},
		{name: "expired", header: "Bearer abc", verifier: &fakeVerifier{err: utils.ErrTokenExpired}, wantStatus: http.StatusUnauthorized, wantMessage: "Token expired"},
		{name: "invalid", header: "Bearer abc", verifier: &fakeVerifier{err: utils.ErrTokenInvalid}, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "valid", header: "Bearer abc", verifier: &fakeVerifier{claims: valid}, wantStatus: http.StatusOK, wantBody: "9:customer:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(tt.verifier, zap.NewNop())(http.HandlerFunc(claimsEcho))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantMessage != "" {
				if got := decodeMessage(t, rec); got != tt.wantMessage {
					t.Errorf("message = %q, want %q", got, tt.wantMessage)
				}
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier *fakeVerifier
		want     string
	}{
		{name: "no header", verifier: &fakeVerifier{}, want: "anonymous"},
		{name: "invalid token is ignored", header: "Bearer bad", verifier: &fakeVerifier{err: utils.ErrTokenInvalid}, want: "anonymous"},
		{name: "valid token attaches claims", header: "Bearer good", verifier: &fakeVerifier{claims: &utils.Claims{UserID: 1, Role: utils.RoleAdmin}}, want: "1:admin:good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := OptionalAuth(tt.verifier, zap.NewNop())(http.HandlerFunc(claimsEcho))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if rec.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestAdmin(t *testing.T) {
	tests := []struct {
		name       string
		claims     *utils.Claims
		wantStatus int
	}{
		{name: "no claims", wantStatus: http.StatusUnauthorized},
		{name: "customer", claims: &utils.Claims{UserID: 2, Role: utils.RoleCustomer}, wantStatus: http.StatusForbidden},
		{name: "admin", claims: &utils.Claims{UserID: 1, Role: utils.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Admin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodDelete, "/catalogo/1", nil)
			if tt.claims != nil {
				req = req.WithContext(utils.SetClaimsContext(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetRequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "client-id" {
		t.Errorf("client id not reused, got %q", seen)
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Internal server error" {
		t.Errorf("message = %q", got)
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	var captured *responseWriter
	handler := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hi"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured.statusCode != http.StatusTeapot || captured.bytesWritten != 2 {
		t.Errorf("captured status=%d bytes=%d", captured.statusCode, captured.bytesWritten)
	}
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("furniture-catalog", reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/catalogo/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalogo/"+id, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/catalogo/{id}", "404"))
	if got != 2 {
		t.Errorf("request counter = %v, want 2", got)
	}
	if testutil.ToFloat64(m.inFlight) != 0 {
		t.Error("in-flight gauge should be back to zero")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:4200/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/catalogo", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/catalogo", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Allow-Origin %q for foreign origin", got)
	}
}
