package report

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
)

// DefaultStage is used when an assessment does not name a stage.
const DefaultStage = "Initial"

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the ordered list of maturity stages.
type Catalog struct {
	Stages []Stage `yaml:"stages"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// ParseCatalog decodes a YAML stage catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse stage catalog: %w", err)
	}
	if len(c.Stages) == 0 {
		return nil, fmt.Errorf("stage catalog is empty")
	}
	seen := make(map[string]bool, len(c.Stages))
	for _, s := range c.Stages {
		if s.Name == "" {
			return nil, fmt.Errorf("stage catalog has a stage without a name")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("stage %q is defined twice", s.Name)
		}
		seen[s.Name] = true
	}
	return &c, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(catalogYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// Stage looks up a stage by name.
func (c *Catalog) Stage(name string) (Stage, bool) {
	for _, s := range c.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// Names lists the stage names in order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Stages))
	for _, s := range c.Stages {
		names = append(names, s.Name)
	}
	return names
}

// Input is the data a report is built from.
type Input struct {
	UserName       string
	UserEmail      string
	AssessmentDate time.Time
	Scores         *Scores
	StageName      string
}

// BuildResult fills in the maturity and recommendation blocks from the
// catalog. An unknown stage keeps its name but carries no description,
// characteristics or recommendation; an empty stage leaves maturity unset.
func (c *Catalog) BuildResult(in Input) *Result {
	result := &Result{
		UserName:       in.UserName,
		UserEmail:      in.UserEmail,
		AssessmentDate: in.AssessmentDate,
		Scores:         in.Scores,
		AllStages:      c.Stages,
	}

	if in.StageName == "" {
		return result
	}

	stage, ok := c.Stage(in.StageName)
	if !ok {
		result.Maturity = &Maturity{CurrentStage: in.StageName}
		return result
	}

	result.Maturity = &Maturity{
		CurrentStage:    stage.Name,
		Description:     stage.Description,
		Characteristics: stage.Characteristics,
	}
	if stage.Recommendation != "" {
		result.Recommendation = &Recommendation{
			Label:       stage.Name + " stage",
			Description: stage.Recommendation,
		}
	}
	return result
}
