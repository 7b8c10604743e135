// Package rules holds the static lookup tables the recommendation engine reads.
// Tables are built once at startup, from Default or a YAML file, and are never
// mutated afterwards.
package rules

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidTables = errors.New("invalid rule tables")

// KeywordRule maps one keyword to a device or to a group of alternatives.
type KeywordRule struct {
	Keyword string   `yaml:"keyword"`
	Devices []string `yaml:"devices"`
}

// SceneRule declares a scene, the keywords that enter it and the devices it permits.
type SceneRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Devices  []string `yaml:"devices"`
}

// Tables is the complete rule set. Keywords and Scenes are ordered: their
// order is the tie-break for matching and scene detection.
type Tables struct {
	Keywords         []KeywordRule                  `yaml:"keywords"`
	Scenes           []SceneRule                    `yaml:"scenes"`
	RegionSeason     map[string]map[string][]string `yaml:"region_season"`
	SeasonDevices    map[string][]string            `yaml:"season_devices"`
	TimeDevices      map[string]map[string][]string `yaml:"time_devices"`
	FamilyFeatures   map[string][]string            `yaml:"family_features"`
	Cooking          map[string][]string            `yaml:"cooking"`
	WorkSchedule     map[string][]string            `yaml:"work_schedule"`
	Catalog          []string                       `yaml:"catalog"`
	EndSceneCommands []string                       `yaml:"end_scene_commands"`
}

// Load parses YAML rule tables. Sections absent from the document are taken
// from Default, so a file may override only the tables it cares about.
func Load(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse rule tables: %w", err)
	}
	t.lowerKeywords()
	t.fillFrom(Default())
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads rule tables from a YAML file.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule tables: %w", err)
	}
	return Load(data)
}

// lowerKeywords folds keywords to lower case; utterances are matched lower-cased.
func (t *Tables) lowerKeywords() {
	for i := range t.Keywords {
		t.Keywords[i].Keyword = strings.ToLower(t.Keywords[i].Keyword)
	}
	for i := range t.Scenes {
		for j, kw := range t.Scenes[i].Keywords {
			t.Scenes[i].Keywords[j] = strings.ToLower(kw)
		}
	}
}

func (t *Tables) fillFrom(d *Tables) {
	if t.Keywords == nil {
		t.Keywords = d.Keywords
	}
	if t.Scenes == nil {
		t.Scenes = d.Scenes
	}
	if t.RegionSeason == nil {
		t.RegionSeason = d.RegionSeason
	}
	if t.SeasonDevices == nil {
		t.SeasonDevices = d.SeasonDevices
	}
	if t.TimeDevices == nil {
		t.TimeDevices = d.TimeDevices
	}
	if t.FamilyFeatures == nil {
		t.FamilyFeatures = d.FamilyFeatures
	}
	if t.Cooking == nil {
		t.Cooking = d.Cooking
	}
	if t.WorkSchedule == nil {
		t.WorkSchedule = d.WorkSchedule
	}
	if t.Catalog == nil {
		t.Catalog = d.Catalog
	}
	if t.EndSceneCommands == nil {
		t.EndSceneCommands = d.EndSceneCommands
	}
}

// Validate rejects tables the engine cannot evaluate.
func (t *Tables) Validate() error {
	seen := make(map[string]bool, len(t.Keywords))
	for i, r := range t.Keywords {
		if r.Keyword == "" {
			return fmt.Errorf("%w: keyword rule %d has an empty keyword", ErrInvalidTables, i)
		}
		if len(r.Devices) == 0 {
			return fmt.Errorf("%w: keyword %q has no devices", ErrInvalidTables, r.Keyword)
		}
		if seen[r.Keyword] {
			return fmt.Errorf("%w: keyword %q is declared twice", ErrInvalidTables, r.Keyword)
		}
		seen[r.Keyword] = true
	}
	for i, s := range t.Scenes {
		if s.Name == "" {
			return fmt.Errorf("%w: scene %d has no name", ErrInvalidTables, i)
		}
		if len(s.Keywords) == 0 {
			return fmt.Errorf("%w: scene %q has no keywords", ErrInvalidTables, s.Name)
		}
		if slices.Contains(s.Keywords, "") {
			return fmt.Errorf("%w: scene %q has an empty keyword", ErrInvalidTables, s.Name)
		}
	}
	return nil
}

// Scene returns the scene rule with the given name.
func (t *Tables) Scene(name string) (SceneRule, bool) {
	for _, s := range t.Scenes {
		if s.Name == name {
			return s, true
		}
	}
	return SceneRule{}, false
}

// IsKnownDevice reports whether device is in the catalog.
func (t *Tables) IsKnownDevice(device string) bool {
	return slices.Contains(t.Catalog, device)
}

// IsEndSceneCommand reports whether input is an explicit end-scene command.
func (t *Tables) IsEndSceneCommand(input string) bool {
	return slices.Contains(t.EndSceneCommands, input)
}
