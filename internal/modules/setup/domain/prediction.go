package domain

import (
	"math"
	"strings"

	"mindfocus/internal/platform/random"
)

const (
	saturationHours   = 2.5
	probabilityCap    = 95
	targetScore       = 0.75
	maxRecommendation = 3
	defaultSubject    = 0.75

	weightKnowledge = 0.35
	weightInterest  = 0.25
	weightTime      = 0.25
	weightSubject   = 0.15
)

type subjectWeight struct {
	keyword string
	weight  float64
}

// Matched in order; first hit wins.
var subjectWeights = []subjectWeight{
	{"math", 0.85},
	{"calculus", 0.85},
	{"physics", 0.80},
	{"chemistry", 0.80},
	{"biology", 0.75},
	{"history", 0.70},
	{"english", 0.75},
	{"programming", 0.85},
	{"cs", 0.85},
	{"computer", 0.85},
}

const (
	RecShortSession   = "Studies show that 1.5-2.5 hours is optimal for retention and comprehension."
	RecLowKnowledge   = "Since your prior knowledge is low, consider reviewing fundamental concepts before diving into advanced topics."
	RecLowInterest    = "Low interest can impact retention. Try finding real-world applications or study with a group to boost engagement."
	RecLongSession    = "Sessions over 3 hours show diminishing returns. Break it into 30-minute blocks with 5-minute breaks."
	RecExcellentSetup = "Excellent setup! Your predicted success rate is high. Stay focused and you'll do great!"
	RecGoodSetup      = "Good setup! You're on track for success. Consider taking short breaks every 30 minutes."
)

// Factors are the normalized inputs scaled to 0-100.
type Factors struct {
	StudyTime      float64 `json:"study_time"`
	PriorKnowledge float64 `json:"prior_knowledge"`
	Interest       float64 `json:"interest"`
	Subject        float64 `json:"subject"`
}

type Prediction struct {
	Probability     int
	Confidence      int
	Factors         Factors
	Recommendations []string
	// SuggestedDuration is in minutes; zero means no suggestion.
	SuggestedDuration int
}

// Predict scores a setup. Everything except Confidence is a pure function
// of setup; Confidence is drawn from rng in [70, 90].
func Predict(setup SessionSetup, rng random.Source) Prediction {
	hours := float64(setup.DurationMin) / 60
	subject := SubjectWeight(setup.Reason, string(setup.Category))
	knowledge := float64(setup.PriorKnowledge) / 10
	interest := float64(setup.Interest) / 10
	timeFactor := TimeFactor(setup.DurationMin)

	raw := RawScore(knowledge, interest, timeFactor, subject)
	probability := int(math.Round(math.Max(0, math.Min(raw*100, probabilityCap))))

	out := Prediction{
		Probability: probability,
		Confidence:  int(math.Round(70 + rng.Float64()*20)),
		Factors: Factors{
			StudyTime:      timeFactor * 100,
			PriorKnowledge: knowledge * 100,
			Interest:       interest * 100,
			Subject:        subject * 100,
		},
	}
	if probability < 70 {
		out.SuggestedDuration = suggestDuration(raw, timeFactor)
	}
	out.Recommendations = recommend(hours, setup.PriorKnowledge, setup.Interest, probability)
	return out
}

// SubjectWeight returns the difficulty weight of the first keyword found in
// any of texts.
func SubjectWeight(texts ...string) float64 {
	lowered := make([]string, 0, len(texts))
	for _, t := range texts {
		lowered = append(lowered, strings.ToLower(t))
	}
	for _, sw := range subjectWeights {
		for _, t := range lowered {
			if strings.Contains(t, sw.keyword) {
				return sw.weight
			}
		}
	}
	return defaultSubject
}

// TimeFactor saturates at 2.5 hours. Non-positive durations score zero.
func TimeFactor(durationMin int) float64 {
	if durationMin <= 0 {
		return 0
	}
	return math.Min(float64(durationMin)/60/saturationHours, 1)
}

func RawScore(knowledge, interest, timeFactor, subject float64) float64 {
	return weightKnowledge*knowledge + weightInterest*interest + weightTime*timeFactor + weightSubject*subject
}

// suggestDuration back-solves the time factor that lifts raw to the target
// score. The result is capped at the saturation point since longer sessions
// add nothing to the score.
func suggestDuration(raw, timeFactor float64) int {
	needed := (targetScore - (raw - weightTime*timeFactor)) / weightTime
	if needed > 1 {
		needed = 1
	}
	minutes := int(math.Ceil(needed*saturationHours*60 - 1e-9))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func recommend(hours float64, priorKnowledge, interest, probability int) []string {
	out := make([]string, 0, maxRecommendation)
	if hours < 1.5 {
		out = append(out, RecShortSession)
	}
	if priorKnowledge < 5 {
		out = append(out, RecLowKnowledge)
	}
	if interest < 6 {
		out = append(out, RecLowInterest)
	}
	if hours > 3 {
		out = append(out, RecLongSession)
	}
	if probability >= 80 {
		out = append(out, RecExcellentSetup)
	}
	if probability >= 70 && probability < 80 {
		out = append(out, RecGoodSetup)
	}
	if len(out) > maxRecommendation {
		out = out[:maxRecommendation]
	}
	return out
}
