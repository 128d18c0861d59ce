package models

// Insight is AI-generated commentary over recent work days. The score
// is conventionally in [0,100] but is not validated here.
type Insight struct {
	Summary           string   `json:"summary"`
	Recommendations   []string `json:"recommendations"`
	ProductivityScore float64  `json:"productivityScore"`
}
