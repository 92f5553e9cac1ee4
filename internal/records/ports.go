// Package records defines the Record Store boundary: where a reading year
// comes from and where refreshed snapshots go.
package records

import (
	"context"

	"bookyear/internal/core"
)

// Ports for record store adapters.
type (
	// YearReader supplies the fixed collection for one aggregation pass.
	YearReader interface {
		// ReadYear returns the reading year or an error wrapping
		// core.ErrYearNotFound. The result is a copy owned by the caller.
		ReadYear(ctx context.Context, year int) (core.ReadingYear, error)
	}

	// YearWriter stores a full snapshot, replacing any previous one for the same year.
	YearWriter interface {
		SaveYear(ctx context.Context, y core.ReadingYear) error
	}

	Store interface {
		YearReader
		YearWriter
	}
)
