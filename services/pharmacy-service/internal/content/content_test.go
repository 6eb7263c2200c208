package content

import (
	"strings"
	"testing"

	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
)

func TestLoadEmbeddedLibrary(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c, err := lib.Condition("adhd-adults")
	if err != nil {
		t.Fatalf("expected adhd-adults: %v", err)
	}
	if c.Title == "" || !strings.Contains(c.Content, "ADHD") {
		t.Fatalf("unexpected condition %+v", c.Title)
	}
	if len(lib.Index()) != 3 {
		t.Fatalf("expected 3 conditions, got %d", len(lib.Index()))
	}
	if len(lib.Testimonials()) != 5 {
		t.Fatalf("expected 5 testimonials, got %d", len(lib.Testimonials()))
	}
}

func TestUnknownConditionIsNotFound(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := lib.Condition("unknown-thing"); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestIndexIsACopy(t *testing.T) {
	lib, err := newLibrary([]Condition{{Slug: "b", Title: "B"}, {Slug: "a", Title: "A"}}, nil)
	if err != nil {
		t.Fatalf("newLibrary failed: %v", err)
	}
	idx := lib.Index()
	if idx[0].Slug != "a" {
		t.Fatalf("expected title order, got %v", idx)
	}
	idx[0].Title = "changed"
	if lib.Index()[0].Title != "A" {
		t.Fatal("library must not be mutated through Index")
	}
}

func TestDuplicateSlugRejected(t *testing.T) {
	if _, err := newLibrary([]Condition{{Slug: "a"}, {Slug: "a"}}, nil); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestPagesUniquePaths(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Pages() {
		if !strings.HasPrefix(p.Path, "/") || !strings.HasSuffix(p.Path, "/") {
			t.Fatalf("path %q must start and end with /", p.Path)
		}
		if seen[p.Path] {
			t.Fatalf("duplicate path %q", p.Path)
		}
		seen[p.Path] = true
	}
	if !seen["/pharmacy-first/"] || !seen["/3service/"] {
		t.Fatal("expected site page paths to be registered")
	}
}
