package reading

import (
	"fmt"
	"slices"

	"bookyear/internal/core"
)

// FeaturedLimit caps the rating fallback of PolicyCurated.
const FeaturedLimit = 2

// FeaturedPolicy selects how highlight books are chosen.
type FeaturedPolicy string

const (
	// PolicyCurated returns books flagged Featured. With none flagged it
	// falls back to the FeaturedLimit highest rated books; unrated books are
	// never promoted.
	PolicyCurated FeaturedPolicy = "curated"
	// PolicyFiveStar returns every book rated MaxRating and ignores the flag.
	PolicyFiveStar FeaturedPolicy = "five-star"
)

func (p FeaturedPolicy) IsValid() bool {
	switch p {
	case PolicyCurated, PolicyFiveStar:
		return true
	default:
		return false
	}
}

// ParseFeaturedPolicy maps a config value to a policy. Empty means PolicyCurated.
func ParseFeaturedPolicy(s string) (FeaturedPolicy, error) {
	if s == "" {
		return PolicyCurated, nil
	}
	p := FeaturedPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown featured policy %q", s)
	}
	return p, nil
}

// Featured picks the highlight subset according to policy. Books with equal
// ratings keep their relative input order. Unknown policies behave like
// PolicyCurated.
func Featured(books []core.Book, policy FeaturedPolicy) []core.Book {
	if policy == PolicyFiveStar {
		return FiveStar(books)
	}
	return Curated(books)
}

// Curated implements PolicyCurated.
func Curated(books []core.Book) []core.Book {
	flagged := filter(books, func(b core.Book) bool { return b.Featured })
	if len(flagged) > 0 {
		return flagged
	}

	rated := filter(books, core.Book.HasRating)
	slices.SortStableFunc(rated, func(a, b core.Book) int {
		return b.RatingValue() - a.RatingValue()
	})
	if len(rated) > FeaturedLimit {
		rated = rated[:FeaturedLimit]
	}
	return rated
}

// FiveStar implements PolicyFiveStar.
func FiveStar(books []core.Book) []core.Book {
	return filter(books, func(b core.Book) bool {
		return b.Rating != nil && *b.Rating == core.MaxRating
	})
}

func filter(books []core.Book, keep func(core.Book) bool) []core.Book {
	out := []core.Book{}
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
