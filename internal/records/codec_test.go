package records

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleJSON = `{
  "year": 2025,
  "readerName": "Victoria",
  "goal": 50,
  "books": [
    {
      "id": "the-goldfinch",
      "title": "The Goldfinch",
      "author": "Donna Tartt",
      "coverImageUrl": "/covers/the-goldfinch.jpg",
      "dateFinished": "2025-05-12",
      "rating": 5,
      "personalNote": "Loved it.",
      "featured": true
    },
    {
      "id": "educated",
      "title": "Educated",
      "author": "Tara Westover",
      "coverImageUrl": "/covers/educated.jpg",
      "dateFinished": "2025-02-03",
      "pages": 334,
      "genre": "Memoir / Biography",
      "personalNote": ""
    }
  ]
}`

const sampleYAML = `year: 2025
readerName: Victoria
goal: 50
books:
  - id: the-goldfinch
    title: The Goldfinch
    author: Donna Tartt
    coverImageUrl: /covers/the-goldfinch.jpg
    dateFinished: "2025-05-12"
    rating: 5
    personalNote: Loved it.
    featured: true
`

func TestDecodeJSON(t *testing.T) {
	y, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if y.Year != 2025 || y.ReaderName != "Victoria" || y.Goal != 50 || len(y.Books) != 2 {
		t.Fatalf("unexpected year: %+v", y)
	}
	gold := y.Books[0]
	if gold.RatingValue() != 5 || gold.Pages != nil || !gold.Featured || gold.CoverImageURL != "/covers/the-goldfinch.jpg" {
		t.Fatalf("unexpected first book: %+v", gold)
	}
	edu := y.Books[1]
	if edu.Rating != nil || edu.PageCount() != 334 || edu.Genre != "Memoir / Biography" {
		t.Fatalf("unexpected second book: %+v", edu)
	}
}

func TestDecodeYAML(t *testing.T) {
	y, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(y.Books) != 1 || y.Books[0].DateFinished != "2025-05-12" || y.Books[0].RatingValue() != 5 {
		t.Fatalf("unexpected year: %+v", y)
	}
}

func TestEncodeKeepsOptionalFieldsAbsent(t *testing.T) {
	y, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, y, FormatJSON); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if strings.Count(out, `"rating"`) != 1 || strings.Count(out, `"pages"`) != 1 {
		t.Fatalf("optional fields should only appear where set:\n%s", out)
	}

	buf.Reset()
	if err := Encode(&buf, y, FormatYAML); err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	back, err := Decode(&buf, FormatYAML)
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(back.Books) != 2 || back.Books[1].PageCount() != 334 {
		t.Fatalf("yaml snapshot lost data: %+v", back)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"data.json":    FormatJSON,
		"data.yaml":    FormatYAML,
		"dir/data.YML": FormatYAML,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q err=%v", path, got, err)
		}
	}
	if _, err := FormatFromPath("data.csv"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
