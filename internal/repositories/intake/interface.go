package intake

import (
	"context"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/models"
)

// Repository describes storage operations over IntakeEvent rows.
// Time ranges are half-open: [from, to).
type Repository interface {
	// Insert stores e and assigns e.ID.
	Insert(ctx context.Context, e *models.IntakeEvent) error

	// Last returns the event with the highest id, or common.ErrNotFound.
	Last(ctx context.Context) (*models.IntakeEvent, error)

	// DeleteByID removes one event; common.ErrNotFound if it does not exist.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteBetween removes every event in the range and reports how many.
	DeleteBetween(ctx context.Context, from, to time.Time) (int64, error)

	// DeleteAll removes every event and reports how many.
	DeleteAll(ctx context.Context) (int64, error)

	// SumHydrationBetween sums hydration_amount over the range; 0 when empty.
	SumHydrationBetween(ctx context.Context, from, to time.Time) (float64, error)

	// ListBetween returns the events in the range ordered by id.
	ListBetween(ctx context.Context, from, to time.Time) ([]models.IntakeEvent, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)
}
