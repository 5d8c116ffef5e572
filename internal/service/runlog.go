package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"haber_bosch_console/internal/models"
	"haber_bosch_console/internal/repository"
)

// RunFilter narrows the render history by time range and plot kind.
type RunFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "", a plot kind or its selector value ("cbt", "toy")
}

type RunLogService struct {
	runRepo repository.RunRepo
}

func NewRunLogService(runRepo repository.RunRepo) *RunLogService {
	return &RunLogService{runRepo: runRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	errInvalidRunKind   = errors.New("invalid kind: must be concentration-balance or temperature-over-yield")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeRunKind resolves selector values and full kind names; empty means any.
func normalizeRunKind(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	kind, ok := models.PlotKindFromSelector(s)
	if !ok {
		return "", errInvalidRunKind
	}
	return string(kind), nil
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f RunFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	kind, err := normalizeRunKind(f.Kind)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	return from, to, kind, nil
}

// IsFilterError reports whether err came from filter validation.
func IsFilterError(err error) bool {
	return errors.Is(err, errInvalidTimeRange) || errors.Is(err, errInvalidRunKind)
}

func (s *RunLogService) List(ctx context.Context, f RunFilter) ([]models.RunRecord, error) {
	from, to, kind, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.runRepo.List(ctx, from, to, kind)
}
