package service

import (
	"context"

	"haber_bosch_console/internal/models"
	"haber_bosch_console/internal/repository"
)

// Console is the event-driven form, served by EventLoop.
type Console interface {
	Dispatch(ctx context.Context, ev Event) (Snapshot, error)
	Snapshot(ctx context.Context) (Snapshot, error)
	Request(ctx context.Context) (models.SimulationRequest, error)
}

// RunLog exposes the render history with filtering access.
type RunLog interface {
	List(ctx context.Context, f RunFilter) ([]models.RunRecord, error)
}

// Ranges answers range metadata lookups.
type Ranges interface {
	Lookup(c models.Catalyst) (models.RangeCatalogEntry, error)
}

// Canvas serves the last image drawn onto a canvas. Only the preview engine
// provides one.
type Canvas interface {
	Image(canvasID string) ([]byte, bool)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Console
	RunLog
	Ranges
	Canvas
	Authorization
}

// NewService wires the repository layer and the running console together.
// canvas may be nil. Operator sign-in is left out when auth has no signing
// key.
func NewService(repos *repository.Repository, console Console, ranges Ranges, canvas Canvas, auth AuthSettings) *Service {
	s := &Service{
		Console: console,
		RunLog:  NewRunLogService(repos.RunRepo),
		Ranges:  ranges,
		Canvas:  canvas,
	}
	if len(auth.SigningKey) > 0 {
		s.Authorization = NewAuthService(repos.OperatorRepo, auth)
	}
	return s
}
