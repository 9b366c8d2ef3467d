// Package catalog holds the static reference data of the progression system:
// the activity catalog and the level ladder. Both ship with built-in defaults
// and can be overridden from a YAML file at startup.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

// Catalog is immutable after Load.
type Catalog struct {
	activities map[string]models.ActivityDefinition
	levels     []models.LevelDefinition
	tierIndex  map[string]int
}

type fileFormat struct {
	Activities []models.ActivityDefinition `yaml:"activities"`
	Levels     []models.LevelDefinition    `yaml:"levels"`
}

// Default returns the built-in catalog and ladder.
func Default() *Catalog {
	c, err := build(defaultActivities(), defaultLevels())
	if err != nil {
		// Built-in data is validated by tests; a failure here is a programming error.
		panic(err)
	}
	return c
}

// LoadFile reads a YAML override file. Sections left empty fall back to the
// built-in data.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	acts := f.Activities
	if len(acts) == 0 {
		acts = defaultActivities()
	}
	levels := f.Levels
	if len(levels) == 0 {
		levels = defaultLevels()
	}
	return build(acts, levels)
}

func build(acts []models.ActivityDefinition, levels []models.LevelDefinition) (*Catalog, error) {
	c := &Catalog{
		activities: make(map[string]models.ActivityDefinition, len(acts)),
		levels:     levels,
		tierIndex:  make(map[string]int, len(levels)),
	}
	for _, a := range acts {
		if a.ID == "" {
			return nil, fmt.Errorf("activity with empty id")
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("activity %s: unknown category %q", a.ID, a.Category)
		}
		if a.Points <= 0 {
			return nil, fmt.Errorf("activity %s: point value must be positive", a.ID)
		}
		if _, dup := c.activities[a.ID]; dup {
			return nil, fmt.Errorf("duplicate activity id %s", a.ID)
		}
		c.activities[a.ID] = a
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("level ladder is empty")
	}
	for i, l := range levels {
		if _, dup := c.tierIndex[l.Tier]; dup {
			return nil, fmt.Errorf("duplicate tier %s", l.Tier)
		}
		c.tierIndex[l.Tier] = i
	}
	// Each rung must chain to the next; the last rung chains to itself.
	for i, l := range levels {
		if i == len(levels)-1 {
			if !l.Terminal() {
				return nil, fmt.Errorf("last tier %s must be terminal", l.Tier)
			}
			continue
		}
		if l.NextTier != levels[i+1].Tier {
			return nil, fmt.Errorf("tier %s chains to %s, expected %s", l.Tier, l.NextTier, levels[i+1].Tier)
		}
	}
	return c, nil
}

// Activity looks up a catalog entry by id.
func (c *Catalog) Activity(id string) (models.ActivityDefinition, bool) {
	a, ok := c.activities[id]
	return a, ok
}

// Activities returns all catalog entries for one category.
func (c *Catalog) Activities(cat models.Category) []models.ActivityDefinition {
	var out []models.ActivityDefinition
	for _, a := range c.activities {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}

// Levels returns the ordered ladder.
func (c *Catalog) Levels() []models.LevelDefinition {
	return c.levels
}

// TierIndex returns the ladder position of a tier, or -1 when unknown.
func (c *Catalog) TierIndex(tier string) int {
	if i, ok := c.tierIndex[tier]; ok {
		return i
	}
	return -1
}

// FirstTier returns the entry rung of the ladder.
func (c *Catalog) FirstTier() models.LevelDefinition {
	return c.levels[0]
}
