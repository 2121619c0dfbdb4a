package report

import "time"

// Scores are percentages in 0..100. They are not bounds-checked.
type Scores struct {
	OverallReadiness  float64 `json:"overallReadiness"`
	TwelveFactorScore float64 `json:"twelveFactorScore"`
	DORAScore         float64 `json:"doraScore"`
}

// Stage is one CNCF platform engineering maturity stage.
type Stage struct {
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description"`
	Characteristics []string `yaml:"characteristics" json:"characteristics"`
	Recommendation  string   `yaml:"recommendation" json:"-"`
}

// Maturity is the stage the assessed organisation was placed in.
type Maturity struct {
	CurrentStage    string
	Description     string
	Characteristics []string
}

type Recommendation struct {
	Label       string
	Description string
}

// Result is everything the report shows.
type Result struct {
	UserName       string
	UserEmail      string
	AssessmentDate time.Time
	Scores         *Scores
	Maturity       *Maturity
	AllStages      []Stage
	Recommendation *Recommendation
}

// ScoreValues returns the scores, zero when none were recorded.
func (r *Result) ScoreValues() Scores {
	if r.Scores == nil {
		return Scores{}
	}
	return *r.Scores
}

func (r *Result) CurrentStageName() string {
	if r.Maturity == nil {
		return ""
	}
	return r.Maturity.CurrentStage
}

func (r *Result) MaturityDescription() string {
	if r.Maturity == nil {
		return ""
	}
	return r.Maturity.Description
}

func (r *Result) MaturityCharacteristics() []string {
	if r.Maturity == nil {
		return nil
	}
	return r.Maturity.Characteristics
}
