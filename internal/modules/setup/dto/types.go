package dto

type SetupInput struct {
	Reason         string `json:"reason"`
	Category       string `json:"category"`
	TestDate       string `json:"test_date,omitempty"`
	TestTime       string `json:"test_time,omitempty"`
	DurationMin    int    `json:"duration_minutes"`
	PriorKnowledge int    `json:"prior_knowledge"`
	Interest       int    `json:"interest"`
}

type FactorsOutput struct {
	StudyTime      float64 `json:"study_time"`
	PriorKnowledge float64 `json:"prior_knowledge"`
	Interest       float64 `json:"interest"`
	Subject        float64 `json:"subject"`
}

type PredictionOutput struct {
	Probability       int           `json:"probability"`
	Confidence        int           `json:"confidence"`
	Factors           FactorsOutput `json:"factors"`
	Recommendations   []string      `json:"recommendations"`
	SuggestedDuration int           `json:"suggested_duration,omitempty"`
}

type ApplySuggestionOutput struct {
	Setup      SetupInput
	Prediction PredictionOutput
	Applied    bool
}

type IntakeState struct {
	Step        int
	Draft       SetupInput
	Prompt      string
	Subtext     string
	Placeholder string
	Chips       []string
	Slider      bool
	Done        bool
}
