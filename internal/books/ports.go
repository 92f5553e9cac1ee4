package books

import (
	"context"
	"errors"
)

// ErrNoVolume is returned when a metadata search matches nothing.
var ErrNoVolume = errors.New("no matching volume")

// Volume is the subset of catalogue metadata the enrichment pipeline reads.
// PageCount is zero when the catalogue has no count.
type Volume struct {
	Title      string
	Authors    []string
	PageCount  int
	Categories []string
}

// Ports for outbound adapters.
type (
	// VolumeFinder looks up the best catalogue match for a title and author.
	VolumeFinder interface {
		FindVolume(ctx context.Context, title, author string) (Volume, error)
	}
)
