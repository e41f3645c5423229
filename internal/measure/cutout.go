package measure

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/draftbench/takeoff/pkg/models"
)

// CutoutEngine subtracts hole polygons from a parent area or volume
// measurement. A cutout's value is computed with the same formula family as
// its parent: area for area measurements, area times the parent's depth for
// volumes. Cutout polygons are not validated to lie inside the parent; an
// out-of-bounds cutout simply over-subtracts, and whether the net may go
// negative is controlled by ClampNetAtZero.
type CutoutEngine struct {
	// ClampNetAtZero floors the net value at zero when cutouts exceed the
	// gross value. Off by default; the raw negative net is preserved so the
	// host can flag it instead of hiding it.
	ClampNetAtZero bool
}

// AddCutout computes the hole's value, appends it to the measurement and
// recomputes the net value. Only area and volume measurements accept cutouts.
func (e CutoutEngine) AddCutout(m *models.Measurement, points []models.DocumentPoint, calib models.CalibrationRecord) (models.Cutout, error) {
	if m.Type != models.TypeArea && m.Type != models.TypeVolume {
		return models.Cutout{}, fmt.Errorf("cutouts only apply to area and volume measurements, not %s", m.Type)
	}
	if len(points) < 3 {
		return models.Cutout{}, fmt.Errorf("cutout needs at least 3 points, got %d: %w", len(points), ErrInsufficientPoints)
	}

	value, err := Area(points, calib)
	if err != nil {
		return models.Cutout{}, err
	}
	if m.Type == models.TypeVolume {
		value *= m.Depth
	}

	cutout := models.Cutout{
		ID:              uuid.NewString(),
		Points:          points,
		CalculatedValue: value,
	}
	m.Cutouts = append(m.Cutouts, cutout)
	e.recomputeNet(m)
	return cutout, nil
}

// RemoveCutout deletes a cutout by id and recomputes the net value from the
// remaining set. Removing the last cutout clears the net value entirely.
func (e CutoutEngine) RemoveCutout(m *models.Measurement, cutoutID string) error {
	for i, c := range m.Cutouts {
		if c.ID == cutoutID {
			m.Cutouts = append(m.Cutouts[:i], m.Cutouts[i+1:]...)
			e.recomputeNet(m)
			return nil
		}
	}
	return fmt.Errorf("cutout %s not found on measurement %s", cutoutID, m.ID)
}

func (e CutoutEngine) recomputeNet(m *models.Measurement) {
	if len(m.Cutouts) == 0 {
		m.NetCalculatedValue = 0
		m.HasNet = false
		return
	}
	net := m.CalculatedValue
	for _, c := range m.Cutouts {
		net -= c.CalculatedValue
	}
	if e.ClampNetAtZero && net < 0 {
		net = 0
	}
	m.NetCalculatedValue = net
	m.HasNet = true
}
