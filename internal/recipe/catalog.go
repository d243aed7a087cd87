package recipe

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Template is the read-only definition of one step.
type Template struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Duration    int      `yaml:"duration"` // base minutes at the reference temperature
	Ambient     bool     `yaml:"ambient"`
	Tips        []string `yaml:"tips"`
}

type catalogFile struct {
	Steps []Template `yaml:"steps"`
}

// Catalog is an ordered, immutable list of step templates. It seeds a fresh
// process and supplies base durations for temperature adjustment. A
// Catalog is safe for concurrent use since it never changes after Load.
type Catalog struct {
	steps []Template
	index map[string]int
	log   *logger.Logger
}

// Default returns the built-in sourdough catalog. The embedded document is
// validated by tests, so a failure here is a programming error.
func Default(log *logger.Logger) *Catalog {
	c, err := Load(defaultCatalog, log)
	if err != nil {
		panic(fmt.Sprintf("recipe: built-in catalog: %v", err))
	}
	return c
}

// Load parses a YAML catalog document.
func Load(data []byte, log *logger.Logger) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("%w: catalog has no steps", domain.ErrInvalidDocument)
	}

	c := &Catalog{
		steps: f.Steps,
		index: make(map[string]int, len(f.Steps)),
		log:   log,
	}
	for i, t := range f.Steps {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: step %d has no id", domain.ErrInvalidDocument, i+1)
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate step id %q", domain.ErrInvalidDocument, t.ID)
		}
		if t.Duration < 0 {
			return nil, fmt.Errorf("%w: step %q has negative duration", domain.ErrInvalidDocument, t.ID)
		}
		c.index[t.ID] = i
	}

	log.Debug("catalog loaded: %d steps, %d ambient", len(c.steps), len(c.AmbientIDs()))
	return c, nil
}

// Len returns the number of steps.
func (c *Catalog) Len() int {
	return len(c.steps)
}

// Template returns a copy of the template with the given id.
func (c *Catalog) Template(id string) (Template, bool) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, false
	}
	t := c.steps[i]
	t.Tips = slices.Clone(t.Tips)
	return t, true
}

// Instantiate produces fresh pending steps in catalog order. The result
// shares nothing with the catalog or with earlier calls.
func (c *Catalog) Instantiate() []domain.Step {
	out := make([]domain.Step, len(c.steps))
	for i, t := range c.steps {
		out[i] = domain.Step{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DurationMin: t.Duration,
			Status:      domain.StepPending,
			Tips:        slices.Clone(t.Tips),
		}
	}
	return out
}

// BaseDuration returns the canonical duration of an ambient-sensitive
// step. Unknown ids yield ErrNotFound and fixed-duration steps yield
// ErrNotAmbient.
func (c *Catalog) BaseDuration(id string) (int, error) {
	i, ok := c.index[id]
	if !ok {
		return 0, fmt.Errorf("step %q: %w", id, domain.ErrNotFound)
	}
	if !c.steps[i].Ambient {
		return 0, fmt.Errorf("step %q: %w", id, domain.ErrNotAmbient)
	}
	return c.steps[i].Duration, nil
}

// AmbientIDs returns the ids of the temperature-sensitive steps in
// catalog order.
func (c *Catalog) AmbientIDs() []string {
	var ids []string
	for _, t := range c.steps {
		if t.Ambient {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
