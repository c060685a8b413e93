package fare

import (
	"fmt"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
)

// ValidateEntries checks the rules a deal's price list must satisfy before it
// is written: positive prices, a valid travel window and at most one active
// entry per start date.
func ValidateEntries(entries []models.PriceEntry) error {
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		if !e.Price.IsPositive() {
			return fmt.Errorf("prices[%d]: %w", i, derr.ErrInvalidPrice)
		}

		start, _, ok := e.Window()
		if !ok {
			return fmt.Errorf("prices[%d]: %w", i, derr.ErrInvalidDateRange)
		}

		if !e.Active {
			continue
		}

		key := models.FormatDay(start)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("prices[%d] and prices[%d] start on %s: %w", prev, i, key, derr.ErrDuplicateStartDate)
		}
		seen[key] = i
	}

	return nil
}
