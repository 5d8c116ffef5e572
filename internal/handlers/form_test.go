package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"haber_bosch_console/internal/form"
	"haber_bosch_console/internal/models"
	"haber_bosch_console/internal/service"
)

func TestEventValue_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`"205"`, "205", false},
		{`205.5`, "205.5", false},
		{`true`, "true", false},
		{`false`, "false", false},
		{`null`, "", false},
		{`{"a":1}`, "", true},
		{`[1]`, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var v eventValue
			err := v.UnmarshalJSON([]byte(tc.in))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && string(v) != tc.want {
				t.Fatalf("got %q, want %q", v, tc.want)
			}
		})
	}
}

func TestFormHandler_GetForm(t *testing.T) {
	console := &mockConsole{snap: service.Snapshot{Ready: true, Status: "Status: Engine loaded!"}}
	r := newTestRouter(&service.Service{Console: console})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/form", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out service.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Ready || out.Status != "Status: Engine loaded!" {
		t.Fatalf("unexpected snapshot: %+v", out)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("request id header missing")
	}
}

func TestFormHandler_GetFormLoopStopped(t *testing.T) {
	console := &mockConsole{snapErr: service.ErrLoopStopped}
	r := newTestRouter(&service.Service{Console: console})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/form", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestFormHandler_PostEvent(t *testing.T) {
	console := &mockConsole{snap: service.Snapshot{Ready: true}}
	r := newTestRouter(&service.Service{Console: console})

	body := `{"type":"change","control":"pressure_lhs","value":205}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/form/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	got := console.events()
	if len(got) != 1 {
		t.Fatalf("expected one dispatched event, got %d", len(got))
	}
	want := service.Event{Type: service.EventChange, Control: "pressure_lhs", Value: "205"}
	if got[0] != want {
		t.Fatalf("dispatched %+v, want %+v", got[0], want)
	}
	var out service.Snapshot
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != "handled change" {
		t.Fatalf("unexpected status %q", out.Status)
	}
}

func TestFormHandler_PostEventMouseMove(t *testing.T) {
	console := &mockConsole{snap: service.Snapshot{Ready: true}}
	r := newTestRouter(&service.Service{Console: console})

	body := `{"type":"mousemove","offset_x":10,"offset_y":20.5,"displayed_width":600,"displayed_height":400}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/form/events", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	ev := console.events()[0]
	if ev.OffsetX != 10 || ev.OffsetY != 20.5 || ev.DisplayedWidth != 600 || ev.DisplayedHeight != 400 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestFormHandler_PostEventErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantSnap bool
	}{
		{"malformed json", `{"type":`, nil, http.StatusBadRequest, false},
		{"missing type", `{"control":"x"}`, nil, http.StatusBadRequest, false},
		{"object value", `{"type":"change","value":{}}`, nil, http.StatusBadRequest, false},
		{"invalid value", `{"type":"change","control":"pressure_lhs","value":"abc"}`,
			fmt.Errorf("%w: %q for pressure_lhs", form.ErrInvalidValue, "abc"), http.StatusBadRequest, true},
		{"unknown event", `{"type":"scroll"}`, service.ErrUnknownEvent, http.StatusBadRequest, true},
		{"not ready", `{"type":"refresh"}`, service.ErrNotReady, http.StatusConflict, true},
		{"stopped", `{"type":"refresh"}`, service.ErrLoopStopped, http.StatusServiceUnavailable, false},
		{"wiring error", `{"type":"change","control":"nope","value":"1"}`, form.ErrMissingControl, http.StatusInternalServerError, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ready := !errors.Is(tc.err, service.ErrNotReady) && !errors.Is(tc.err, service.ErrLoopStopped)
			console := &mockConsole{snap: service.Snapshot{Ready: ready}, dispErr: tc.err}
			r := newTestRouter(&service.Service{Console: console})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/form/events", strings.NewReader(tc.body)))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			var out map[string]json.RawMessage
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if _, ok := out["error"]; !ok {
				t.Fatalf("error field missing: %s", w.Body.String())
			}
			if _, ok := out["snapshot"]; ok != tc.wantSnap {
				t.Fatalf("snapshot present=%v want %v", ok, tc.wantSnap)
			}
		})
	}
}

func TestFormHandler_GetRequest(t *testing.T) {
	console := &mockConsole{req: models.SimulationRequest{
		Baseline: models.ScenarioConfig{Catalyst: models.CatalystKMIR, Pressure: 200},
	}}
	r := newTestRouter(&service.Service{Console: console})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/request", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"KMIR"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	console.reqErr = service.ErrNotReady
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/request", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
