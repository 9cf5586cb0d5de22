package document

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
)

func TestParsePage_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		limit    string
		wantPage int
		wantLim  int
	}{
		{"both valid", "3", "25", 3, 25},
		{"empty falls back", "", "", DefaultPage, DefaultLimit},
		{"non-numeric falls back", "two", "ten", DefaultPage, DefaultLimit},
		{"zero falls back", "0", "0", DefaultPage, DefaultLimit},
		{"negative falls back", "-4", "-1", DefaultPage, DefaultLimit},
		{"mixed", "7", "nope", 7, DefaultLimit},
		{"whitespace tolerated", " 2 ", " 5 ", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(tt.page, tt.limit)
			if got.Number != tt.wantPage || got.Limit != tt.wantLim {
				t.Fatalf("ParsePage(%q, %q) = %+v, want {%d %d}",
					tt.page, tt.limit, got, tt.wantPage, tt.wantLim)
			}
		})
	}
}

func TestPage_Window(t *testing.T) {
	skip, fetch := Page{Number: 2, Limit: 5}.Window()
	if skip != 5 || fetch != 6 {
		t.Fatalf("Window() = (%d, %d), want (5, 6)", skip, fetch)
	}

	skip, fetch = Page{Number: 1, Limit: 10}.Window()
	if skip != 0 || fetch != 11 {
		t.Fatalf("Window() = (%d, %d), want (0, 11)", skip, fetch)
	}
}

func TestParseSort_Normalization(t *testing.T) {
	sortable := map[string]struct{}{"createdAt": {}, "title": {}, "duration": {}}

	tests := []struct {
		name      string
		field     string
		order     string
		wantField string
		wantOrder SortOrder
	}{
		{"known field asc", "title", "asc", "title", SortAsc},
		{"known field desc", "duration", "desc", "duration", SortDesc},
		{"unknown field falls back", "views", "asc", DefaultSortField, SortAsc},
		{"empty everything", "", "", DefaultSortField, SortDesc},
		{"garbage order is desc", "title", "sideways", "title", SortDesc},
		{"ascending spelled out", "title", "ascending", "title", SortAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSort(tt.field, tt.order, sortable)
			if got.Field != tt.wantField || got.Order != tt.wantOrder {
				t.Fatalf("ParseSort(%q, %q) = %+v, want {%s %s}",
					tt.field, tt.order, got, tt.wantField, tt.wantOrder)
			}
		})
	}
}

func TestParseID_RejectsMalformedIdentifiers(t *testing.T) {
	if _, err := ParseID("not-an-object-id"); !apperr.Is(err, apperr.CodeInvalidReference) {
		t.Fatalf("expected reference.invalid, got %v", err)
	}

	want := primitive.NewObjectID()
	got, err := ParseID(want.Hex())
	if err != nil {
		t.Fatalf("ParseID(%s): %v", want.Hex(), err)
	}
	if got != want {
		t.Fatalf("ParseID round trip = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestBuildMatch_FailsFastOnBadReference(t *testing.T) {
	_, err := BuildMatch("title", "tutorial", map[string]string{"owner": "zzz"})
	if !apperr.Is(err, apperr.CodeInvalidReference) {
		t.Fatalf("expected reference.invalid, got %v", err)
	}
}

func TestBuildMatch_EmptyTermAndRefsMatchAll(t *testing.T) {
	match, err := BuildMatch("title", "  ", map[string]string{"owner": ""})
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if match.Text.Term != "" {
		t.Fatalf("expected empty term, got %q", match.Text.Term)
	}
	if len(match.Equals) != 0 {
		t.Fatalf("expected no equality criteria, got %v", match.Equals)
	}
	if doc := match.document(); len(doc) != 0 {
		t.Fatalf("empty match must compile to an empty $match document, got %v", doc)
	}
}

func TestBuildMatch_CollectsReferences(t *testing.T) {
	owner := primitive.NewObjectID()
	match, err := BuildMatch("content", "", map[string]string{"owner": owner.Hex()})
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if got := match.Equals["owner"]; got != owner {
		t.Fatalf("owner criteria = %v, want %s", got, owner.Hex())
	}
}
