package catalog

import (
	"errors"
	"testing"

	"haber_bosch_console/internal/models"
)

type recorderStub struct {
	results []string
}

func (r *recorderStub) CatalogLookup(catalyst, result string) {
	r.results = append(r.results, catalyst+":"+result)
}

func TestBuiltin_EntriesAreValid(t *testing.T) {
	for _, c := range Supported() {
		e, err := Builtin(c)
		if err != nil {
			t.Fatalf("Builtin(%s): %v", c, err)
		}
		if err := e.Validate(); err != nil {
			t.Fatalf("entry %s invalid: %v", c, err)
		}
		if len(e.BedStartTemps) != e.MaxBeds() {
			t.Fatalf("%s: %d start temp ranges for %d beds", c, len(e.BedStartTemps), e.MaxBeds())
		}
		if e.Catalyst != c {
			t.Fatalf("entry catalyst=%s, want %s", e.Catalyst, c)
		}
	}
}

func TestLookup_KnownValues(t *testing.T) {
	cat := New(nil, nil)

	kmir, err := cat.Lookup(models.CatalystKMIR)
	if err != nil {
		t.Fatalf("Lookup(KMIR): %v", err)
	}
	if kmir.Pressure != (models.RangeSpec{Min: 180, Max: 220, Default: 200, Step: 1}) {
		t.Fatalf("KMIR pressure: %+v", kmir.Pressure)
	}
	if kmir.BedStartTemps[0].Default != 440 || kmir.BedStartTemps[1].Default != 400 {
		t.Fatalf("KMIR bed defaults: %+v", kmir.BedStartTemps)
	}

	fn, err := cat.Lookup(models.CatalystFN)
	if err != nil {
		t.Fatalf("Lookup(FN): %v", err)
	}
	if fn.Pressure.Default != 100 || fn.BedStartTemps[0].Step != 5 {
		t.Fatalf("FN entry: %+v", fn)
	}
	if fn.Axis.Concentration.Factor != models.ConcentrationFactor || fn.Axis.Length.Factor != models.LengthFactor {
		t.Fatalf("axis factors: %+v", fn.Axis)
	}
}

func TestLookup_UnknownCatalyst(t *testing.T) {
	calls := 0
	cat := New(func(c models.Catalyst) (models.RangeCatalogEntry, error) {
		calls++
		return Builtin(c)
	}, nil)

	_, err := cat.Lookup("RUTHENIUM")
	if err == nil {
		t.Fatalf("expected error")
	}
	var uce *UnknownCatalystError
	if !errors.As(err, &uce) || uce.Catalyst != "RUTHENIUM" {
		t.Fatalf("expected UnknownCatalystError, got %v", err)
	}
	if !errors.Is(err, ErrUnknownCatalyst) {
		t.Fatalf("errors.Is(ErrUnknownCatalyst) = false for %v", err)
	}
	if calls != 0 {
		t.Fatalf("source consulted for unsupported id")
	}
}

func TestLookup_CachesPerCatalyst(t *testing.T) {
	calls := 0
	rec := &recorderStub{}
	cat := New(func(c models.Catalyst) (models.RangeCatalogEntry, error) {
		calls++
		return Builtin(c)
	}, rec)

	for i := 0; i < 3; i++ {
		if _, err := cat.Lookup(models.CatalystKMIR); err != nil {
			t.Fatalf("Lookup: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("source calls=%d, want 1", calls)
	}
	want := []string{"KMIR:miss", "KMIR:hit", "KMIR:hit"}
	if len(rec.results) != len(want) {
		t.Fatalf("recorded %v, want %v", rec.results, want)
	}
	for i := range want {
		if rec.results[i] != want[i] {
			t.Fatalf("recorded %v, want %v", rec.results, want)
		}
	}
}

func TestLookup_ReturnedEntryIsACopy(t *testing.T) {
	cat := New(nil, nil)
	first, _ := cat.Lookup(models.CatalystFN)
	first.BedStartTemps[0].Default = -1

	second, _ := cat.Lookup(models.CatalystFN)
	if second.BedStartTemps[0].Default != fnBed1StartC {
		t.Fatalf("cached entry mutated through returned copy: %+v", second.BedStartTemps[0])
	}
}

func TestLookup_InvalidSourceEntryRejected(t *testing.T) {
	cat := New(func(c models.Catalyst) (models.RangeCatalogEntry, error) {
		e, _ := Builtin(c)
		e.BedStartTemps = e.BedStartTemps[:1]
		return e, nil
	}, nil)
	if _, err := cat.Lookup(models.CatalystKMIR); err == nil {
		t.Fatalf("expected validation error for truncated bed ranges")
	}
}
