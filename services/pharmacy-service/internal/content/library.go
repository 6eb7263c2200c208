// Package content serves the read-only site content: the NHS condition
// library, homepage testimonials and the registry of informational pages.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
)

//go:embed data/*.json
var dataFS embed.FS

type Condition struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ConditionSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type Testimonial struct {
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	Rating int     `json:"rating"`
	Text   string  `json:"text"`
	Avatar *string `json:"avatar"`
}

// Library is immutable after Load and safe for concurrent use.
type Library struct {
	conditions   map[string]Condition
	index        []ConditionSummary
	testimonials []Testimonial
}

func Load() (*Library, error) {
	var conditions []Condition
	if err := readJSON("data/conditions.json", &conditions); err != nil {
		return nil, err
	}
	var testimonials []Testimonial
	if err := readJSON("data/testimonials.json", &testimonials); err != nil {
		return nil, err
	}
	return newLibrary(conditions, testimonials)
}

func newLibrary(conditions []Condition, testimonials []Testimonial) (*Library, error) {
	lib := &Library{
		conditions:   make(map[string]Condition, len(conditions)),
		index:        make([]ConditionSummary, 0, len(conditions)),
		testimonials: testimonials,
	}
	for _, c := range conditions {
		if c.Slug == "" {
			return nil, fmt.Errorf("condition %q has no slug", c.Title)
		}
		if _, dup := lib.conditions[c.Slug]; dup {
			return nil, fmt.Errorf("duplicate condition slug %q", c.Slug)
		}
		lib.conditions[c.Slug] = c
		lib.index = append(lib.index, ConditionSummary{Slug: c.Slug, Title: c.Title})
	}
	sort.Slice(lib.index, func(i, j int) bool { return lib.index[i].Title < lib.index[j].Title })
	return lib, nil
}

func readJSON(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (l *Library) Condition(slug string) (Condition, error) {
	c, ok := l.conditions[slug]
	if !ok {
		return Condition{}, apperr.New(apperr.NotFound, "Condition not found")
	}
	return c, nil
}

// Index lists every condition ordered by title.
func (l *Library) Index() []ConditionSummary {
	out := make([]ConditionSummary, len(l.index))
	copy(out, l.index)
	return out
}

func (l *Library) Testimonials() []Testimonial {
	out := make([]Testimonial, len(l.testimonials))
	copy(out, l.testimonials)
	return out
}
