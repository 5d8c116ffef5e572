package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"haber_bosch_console/internal/repository"
	"haber_bosch_console/internal/service"

	"github.com/gorilla/websocket"
)

func doJSON(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestAuthHandler_SignIn(t *testing.T) {
	auth := &mockAuth{passwords: map[string]string{"alice": "pw"}}
	r := newTestRouter(&service.Service{Authorization: auth})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"success", `{"username":"alice","password":"pw"}`, http.StatusOK, `"token":"op-1"`},
		{"wrong password", `{"username":"alice","password":"x"}`, http.StatusUnauthorized, "invalid credentials"},
		{"unknown user", `{"username":"bob","password":"pw"}`, http.StatusUnauthorized, "invalid credentials"},
		{"missing password", `{"username":"alice"}`, http.StatusBadRequest, "Password"},
		{"not json", `nope`, http.StatusBadRequest, "error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/auth/sign-in", tc.body, nil)
			if w.Code != tc.wantCode || !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandler_SignIn_RepoFailure(t *testing.T) {
	auth := &mockAuth{tokenErr: errors.New("db down")}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/sign-in", `{"username":"a","password":"b"}`, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	body := `{"username":"carol","password":"pw"}`

	tests := []struct {
		name     string
		err      error
		header   http.Header
		wantCode int
	}{
		{"needs a token", nil, nil, http.StatusUnauthorized},
		{"bad token", nil, bearer("forged"), http.StatusUnauthorized},
		{"created", nil, bearer("op-1"), http.StatusCreated},
		{"duplicate", fmt.Errorf("%w: carol", repository.ErrOperatorExists), bearer("op-1"), http.StatusConflict},
		{"blank password", service.ErrEmptyPassword, bearer("op-1"), http.StatusBadRequest},
		{"store failure", errors.New("disk full"), bearer("op-1"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{signUpErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: auth})
			w := doJSON(t, r, http.MethodPost, "/api/v1/auth/sign-up", body, tc.header)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if tc.wantCode == http.StatusCreated {
				var out map[string]int
				if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out["id"] != 2 {
					t.Fatalf("body=%s err=%v", w.Body.String(), err)
				}
				if len(auth.signedUp) != 1 || auth.signedUp[0] != "carol" {
					t.Fatalf("signed up: %v", auth.signedUp)
				}
			}
		})
	}
}

func TestAuthRoutes_AbsentWithoutAuthorization(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/sign-in", `{"username":"a","password":"b"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestRequireAuth_GuardsFormEvents(t *testing.T) {
	console := &mockConsole{snap: service.Snapshot{Ready: true}}
	r := newTestRouterWith(&service.Service{Console: console, Authorization: &mockAuth{}}, Options{RequireAuth: true})
	event := `{"type":"refresh"}`

	tests := []struct {
		name     string
		header   http.Header
		wantCode int
	}{
		{"no header", nil, http.StatusUnauthorized},
		{"wrong scheme", http.Header{"Authorization": {"Basic abc"}}, http.StatusUnauthorized},
		{"invalid token", bearer("op-x"), http.StatusUnauthorized},
		{"valid token", bearer("op-4"), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/form/events", event, tc.header)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
		})
	}
	if n := len(console.events()); n != 1 {
		t.Fatalf("console saw %d events, want 1", n)
	}

	// reads stay open
	w := doJSON(t, r, http.MethodGet, "/api/v1/form", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /form status=%d", w.Code)
	}
}

func TestRequireAuth_WithoutAuthorizationConfigured(t *testing.T) {
	r := newTestRouterWith(&service.Service{Console: &mockConsole{}}, Options{RequireAuth: true})
	w := doJSON(t, r, http.MethodPost, "/api/v1/form/events", `{"type":"refresh"}`, bearer("op-1"))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireAuth_WebSocketTokenQuery(t *testing.T) {
	console := &mockConsole{snap: service.Snapshot{Ready: true, Status: "Status: Engine loaded!"}}
	srv := httptest.NewServer(newTestRouterWith(
		&service.Service{Console: console, Authorization: &mockAuth{}},
		Options{RequireAuth: true},
	))
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	if err == nil {
		t.Fatalf("dial without token must fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token=op-2", nil)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	defer conn.Close()
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil || env.Type != msgSnapshot {
		t.Fatalf("first frame = %+v, err %v", env, err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header, token string
	}{
		{"", ""},
		{"Bearer", ""},
		{"Bearer   ", ""},
		{"Token abc", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
	}
	for _, tc := range cases {
		got, msg := bearerToken(tc.header)
		if got != tc.token {
			t.Fatalf("bearerToken(%q) = %q", tc.header, got)
		}
		if got == "" && msg == "" {
			t.Fatalf("bearerToken(%q) gave no reason", tc.header)
		}
	}
}
