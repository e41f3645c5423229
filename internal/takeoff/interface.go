package takeoff

import (
	"github.com/draftbench/takeoff/pkg/models"
)

// Store is the persistence contract the service writes through. The core
// never owns the persisted list; hosts provide their own implementation or
// use store.MemoryStore.
type Store interface {
	Save(m models.Measurement) (string, error)
	Update(id string, m models.Measurement) error
	Delete(id string) error
	Get(id string) (models.Measurement, error)
	QueryByPage(pageNum int) []models.Measurement
}
