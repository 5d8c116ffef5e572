package catalog

import (
	"errors"
	"fmt"
	"sync"

	"haber_bosch_console/internal/models"
)

// ErrUnknownCatalyst is matched by every UnknownCatalystError.
var ErrUnknownCatalyst = errors.New("unknown catalyst")

// UnknownCatalystError reports a catalyst id outside the supported set.
type UnknownCatalystError struct {
	Catalyst models.Catalyst
}

func (e *UnknownCatalystError) Error() string {
	return fmt.Sprintf("unknown catalyst %q", string(e.Catalyst))
}

func (e *UnknownCatalystError) Is(target error) bool {
	return target == ErrUnknownCatalyst
}

// Source produces range metadata for a catalyst. Builtin and
// engine.Engine.RangeFor both satisfy it.
type Source func(models.Catalyst) (models.RangeCatalogEntry, error)

// LookupRecorder is notified of every lookup; result is "hit", "miss" or "error".
type LookupRecorder interface {
	CatalogLookup(catalyst, result string)
}

// Catalog caches range entries per catalyst. Entries never change during a
// session, so the first successful answer of the source is kept.
type Catalog struct {
	source   Source
	recorder LookupRecorder

	mu    sync.Mutex
	cache map[models.Catalyst]models.RangeCatalogEntry
}

// New builds a catalog over source. A nil source falls back to Builtin.
func New(source Source, recorder LookupRecorder) *Catalog {
	if source == nil {
		source = Builtin
	}
	return &Catalog{
		source:   source,
		recorder: recorder,
		cache:    make(map[models.Catalyst]models.RangeCatalogEntry),
	}
}

// Lookup returns the entry for c. Unsupported ids fail with
// *UnknownCatalystError before the source is consulted.
func (c *Catalog) Lookup(cat models.Catalyst) (models.RangeCatalogEntry, error) {
	if !IsSupported(cat) {
		c.record(cat, "error")
		return models.RangeCatalogEntry{}, &UnknownCatalystError{Catalyst: cat}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.cache[cat]; ok {
		c.record(cat, "hit")
		return e.Clone(), nil
	}

	e, err := c.source(cat)
	if err != nil {
		c.record(cat, "error")
		return models.RangeCatalogEntry{}, fmt.Errorf("range metadata for %s: %w", cat, err)
	}
	if err := e.Validate(); err != nil {
		c.record(cat, "error")
		return models.RangeCatalogEntry{}, fmt.Errorf("range metadata for %s: %w", cat, err)
	}
	c.cache[cat] = e.Clone()
	c.record(cat, "miss")
	return e, nil
}

func (c *Catalog) record(cat models.Catalyst, result string) {
	if c.recorder != nil {
		c.recorder.CatalogLookup(string(cat), result)
	}
}

// Supported returns the closed catalyst set in display order.
func Supported() []models.Catalyst {
	return append([]models.Catalyst(nil), supported...)
}

// IsSupported reports whether cat belongs to the supported set.
func IsSupported(cat models.Catalyst) bool {
	for _, s := range supported {
		if s == cat {
			return true
		}
	}
	return false
}
