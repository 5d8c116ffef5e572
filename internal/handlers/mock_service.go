package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"haber_bosch_console/internal/catalog"
	"haber_bosch_console/internal/models"
	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockConsole struct {
	mu sync.Mutex

	snap     service.Snapshot
	snapErr  error
	dispErr  error
	req      models.SimulationRequest
	reqErr   error
	received []service.Event
}

func (m *mockConsole) Dispatch(ctx context.Context, ev service.Event) (service.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, ev)
	if m.dispErr == nil {
		m.snap.Status = "handled " + string(ev.Type)
	}
	return m.snap, m.dispErr
}

func (m *mockConsole) Snapshot(ctx context.Context) (service.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.snapErr
}

func (m *mockConsole) Request(ctx context.Context) (models.SimulationRequest, error) {
	return m.req, m.reqErr
}

func (m *mockConsole) events() []service.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Event(nil), m.received...)
}

type mockRunLog struct {
	resp     []models.RunRecord
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastKind string
}

func (m *mockRunLog) List(ctx context.Context, f service.RunFilter) ([]models.RunRecord, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastKind = f.Kind
	return m.resp, m.err
}

// mockRanges serves the built-in table unless err is set.
type mockRanges struct {
	err error
}

func (m *mockRanges) Lookup(c models.Catalyst) (models.RangeCatalogEntry, error) {
	if m.err != nil {
		return models.RangeCatalogEntry{}, m.err
	}
	return catalog.Builtin(c)
}

type mockCanvas map[string][]byte

func (m mockCanvas) Image(id string) ([]byte, bool) {
	b, ok := m[id]
	return b, ok
}

// mockAuth accepts tokens of the form "op-<id>" and one password per user.
type mockAuth struct {
	passwords map[string]string
	signUpErr error
	tokenErr  error
	signedUp  []string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	if m.signUpErr != nil {
		return 0, m.signUpErr
	}
	m.signedUp = append(m.signedUp, username)
	return len(m.signedUp) + 1, nil
}

func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	want, ok := m.passwords[username]
	if !ok {
		return "", service.ErrUserNotFound
	}
	if want != password {
		return "", service.ErrInvalidPassword
	}
	return "op-1", nil
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(token, "op-%d", &id); err != nil || id <= 0 {
		return 0, service.ErrInvalidToken
	}
	return id, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil, opts).InitRoutes()
}
