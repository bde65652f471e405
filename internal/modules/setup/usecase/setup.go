package usecase

import (
	"context"
	"slices"

	"mindfocus/internal/modules/setup/domain"
	"mindfocus/internal/modules/setup/dto"
	setupin "mindfocus/internal/modules/setup/port/in"
	"mindfocus/internal/modules/setup/service"
)

type Interactor struct {
	svc *service.SetupService
}

func NewInteractor(svc *service.SetupService) setupin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Predict(_ context.Context, input dto.SetupInput) (dto.PredictionOutput, error) {
	setup := ToDomain(input)
	if err := setup.ValidateScores(); err != nil {
		return dto.PredictionOutput{}, err
	}
	return toPredictionOutput(i.svc.Predict(setup)), nil
}

func (i *Interactor) ApplySuggestion(_ context.Context, input dto.SetupInput) (dto.ApplySuggestionOutput, error) {
	if err := ToDomain(input).ValidateScores(); err != nil {
		return dto.ApplySuggestionOutput{}, err
	}
	setup, prediction, applied := i.svc.ApplySuggestion(ToDomain(input))
	return dto.ApplySuggestionOutput{Setup: FromDomain(setup), Prediction: toPredictionOutput(prediction), Applied: applied}, nil
}

func (i *Interactor) Validate(_ context.Context, input dto.SetupInput) error {
	return ToDomain(input).Validate()
}

func (i *Interactor) StartIntake(_ context.Context) dto.IntakeState {
	return toIntakeState(domain.NewIntake())
}

func (i *Interactor) AnswerIntake(_ context.Context, state dto.IntakeState, answer string) (dto.IntakeState, error) {
	next, err := domain.Intake{Step: state.Step, Draft: ToDomain(state.Draft)}.Answer(answer)
	if err != nil {
		return state, err
	}
	return toIntakeState(next), nil
}

// ToDomain converts the transport shape into a SessionSetup.
func ToDomain(input dto.SetupInput) domain.SessionSetup {
	return domain.SessionSetup{
		Reason:         input.Reason,
		Category:       domain.Category(input.Category),
		TestDate:       input.TestDate,
		TestTime:       input.TestTime,
		DurationMin:    input.DurationMin,
		PriorKnowledge: input.PriorKnowledge,
		Interest:       input.Interest,
	}
}

func FromDomain(setup domain.SessionSetup) dto.SetupInput {
	return dto.SetupInput{
		Reason:         setup.Reason,
		Category:       string(setup.Category),
		TestDate:       setup.TestDate,
		TestTime:       setup.TestTime,
		DurationMin:    setup.DurationMin,
		PriorKnowledge: setup.PriorKnowledge,
		Interest:       setup.Interest,
	}
}

func toPredictionOutput(p domain.Prediction) dto.PredictionOutput {
	return dto.PredictionOutput{
		Probability: p.Probability,
		Confidence:  p.Confidence,
		Factors: dto.FactorsOutput{
			StudyTime:      p.Factors.StudyTime,
			PriorKnowledge: p.Factors.PriorKnowledge,
			Interest:       p.Factors.Interest,
			Subject:        p.Factors.Subject,
		},
		Recommendations:   slices.Clone(p.Recommendations),
		SuggestedDuration: p.SuggestedDuration,
	}
}

func toIntakeState(in domain.Intake) dto.IntakeState {
	state := dto.IntakeState{Step: in.Step, Draft: FromDomain(in.Draft), Done: in.Done()}
	if step, ok := in.Current(); ok {
		state.Prompt = step.Prompt
		state.Subtext = step.Subtext
		state.Placeholder = step.Placeholder
		state.Chips = slices.Clone(step.Chips)
		state.Slider = step.Slider
	}
	return state
}
