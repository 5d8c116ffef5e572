package service

import (
	"haber_bosch_console/internal/form"
	"haber_bosch_console/internal/models"
)

// AssembleRequest reads the form into a fresh SimulationRequest. It never
// writes to the form. Alt is attached only while the diff toggle is checked,
// axis settings only while manual axes are enabled; hidden values are read
// as they were left.
func (c *Controller) AssembleRequest() (models.SimulationRequest, error) {
	if !c.ready {
		return models.SimulationRequest{}, ErrNotReady
	}

	base, err := c.readScenario(models.Baseline)
	if err != nil {
		return models.SimulationRequest{}, err
	}
	req := models.SimulationRequest{
		Baseline:     base,
		Alt:          models.None[models.ScenarioConfig](),
		AxisSettings: models.None[models.AxisSettings](),
	}

	if c.opts.Sides == 2 {
		diff, err := c.form.Control(form.DiffToolID)
		if err != nil {
			return models.SimulationRequest{}, err
		}
		if diff.Checked {
			alt, err := c.readScenario(models.Alt)
			if err != nil {
				return models.SimulationRequest{}, err
			}
			req.Alt = models.Some(alt)
		}
	}

	manual, err := c.form.Control(form.ManualAxesID)
	if err != nil {
		return models.SimulationRequest{}, err
	}
	if manual.Checked {
		axis, err := c.readAxis()
		if err != nil {
			return models.SimulationRequest{}, err
		}
		req.AxisSettings = models.Some(axis)
	}
	return req, nil
}

func (c *Controller) readScenario(side models.Side) (models.ScenarioConfig, error) {
	sel, err := c.form.Control(form.CatalystID(side))
	if err != nil {
		return models.ScenarioConfig{}, err
	}
	pressure, err := c.form.Control(form.PressureID(side))
	if err != nil {
		return models.ScenarioConfig{}, err
	}
	count, err := c.form.Control(form.BedCountID(side))
	if err != nil {
		return models.ScenarioConfig{}, err
	}

	cat := models.Catalyst(sel.Selected)
	n := int(count.Value)
	sc := models.ScenarioConfig{
		Catalyst: cat,
		Pressure: pressure.Value,
		BedCount: n,
		Beds:     make([]models.BedConfig, 0, n),
	}
	for i := 0; i < n; i++ {
		bed, err := c.readBed(side, cat, i)
		if err != nil {
			return models.ScenarioConfig{}, err
		}
		sc.Beds = append(sc.Beds, bed)
	}
	return sc, nil
}

// readBed reads bed idx (0-based). Start temperatures are edited in °C and
// handed to the engine in K.
func (c *Controller) readBed(side models.Side, cat models.Catalyst, idx int) (models.BedConfig, error) {
	start, err := c.form.Control(form.BedStartTempID(side, idx+1))
	if err != nil {
		return models.BedConfig{}, err
	}
	slope, err := c.form.Control(form.BedSlopeTempID(side, idx+1))
	if err != nil {
		return models.BedConfig{}, err
	}
	return models.BedConfig{
		Index:     idx,
		Catalyst:  cat,
		StartTemp: start.Value + models.CelsiusToKelvin,
		SlopeTemp: slope.Value,
	}, nil
}

func (c *Controller) readAxis() (models.AxisSettings, error) {
	var raw [4]float64
	for i, id := range []string{form.LengthMaxID, form.ConcentrationMaxID, form.MinTempID, form.MaxTempID} {
		ctl, err := c.form.Control(id)
		if err != nil {
			return models.AxisSettings{}, err
		}
		raw[i] = ctl.Value
	}
	return models.AxisSettings{
		LengthMax:        raw[0] * models.LengthFactor,
		ConcentrationMax: raw[1] * models.ConcentrationFactor,
		MinTemp:          raw[2],
		MaxTemp:          raw[3],
	}, nil
}
