package books

import "strings"

// GenreFromCategories collapses catalogue categories into a single display
// genre. It returns "" when nothing recognisable is present.
//
// Rules are checked in order against the lower-cased, " | "-joined
// categories, so "Fiction / Fantasy / Romance" maps to "Fantasy Romance"
// rather than "Fiction".
func GenreFromCategories(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	cats := strings.ToLower(strings.Join(categories, " | "))
	has := func(needle string) bool { return strings.Contains(cats, needle) }
	ya := func(genre string) string {
		if has("young adult") || has("ya ") {
			return "YA " + genre
		}
		return genre
	}

	switch {
	case has("romance") && has("fantasy"):
		return ya("Fantasy Romance")
	case has("romance"):
		return ya("Romance")
	case has("fantasy"):
		return ya("Fantasy")
	case has("science fiction") || has("sci-fi") || has("scifi"):
		return ya("Science Fiction")
	case has("mystery") || has("thriller") || has("crime") || has("suspense"):
		return ya("Mystery / Thriller")
	case has("horror"):
		return ya("Horror")
	case has("biography") || has("memoir"):
		return "Memoir / Biography"
	case has("historical") && has("fiction"):
		return "Historical Fiction"
	case has("graphic novel") || has("comics"):
		return "Graphic Novel"
	case has("poetry"):
		return "Poetry"
	case has("nonfiction") || has("non-fiction"):
		return "Non-Fiction"
	case has("fiction"):
		return ya("Fiction")
	case has("essays"):
		return "Non-Fiction"
	}
	return ""
}
