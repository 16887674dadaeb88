package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Plan is a YAML-defined search plan. A plan overrides the search section
// of the environment configuration for a single run, so recurring campaigns
// can live in version-controlled files.
type Plan struct {
	Keywords          []string `yaml:"keywords"`
	Locations         []string `yaml:"locations"`
	SeniorityKeywords []string `yaml:"seniority_keywords"`
	MaxProfiles       int      `yaml:"max_profiles"`
	TestMode          *bool    `yaml:"test_mode"`
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "config: read plan")
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, eris.Wrap(err, "config: parse plan")
	}
	if len(plan.Keywords) == 0 {
		return nil, eris.New("config: plan has no keywords")
	}
	return &plan, nil
}

// ApplyPlan overlays non-empty plan fields onto the configuration.
func (c *Config) ApplyPlan(plan *Plan) {
	c.Search.Keywords = plan.Keywords
	if len(plan.Locations) > 0 {
		c.Search.Locations = plan.Locations
	}
	if len(plan.SeniorityKeywords) > 0 {
		c.Search.SeniorityKeywords = plan.SeniorityKeywords
	}
	if plan.MaxProfiles > 0 {
		c.Search.MaxProfiles = plan.MaxProfiles
	}
	if plan.TestMode != nil {
		c.Run.TestMode = *plan.TestMode
	}
}
