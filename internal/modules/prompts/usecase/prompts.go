package usecase

import (
	"context"

	"mindfocus/internal/modules/prompts/domain"
	"mindfocus/internal/modules/prompts/dto"
	promptsin "mindfocus/internal/modules/prompts/port/in"
	"mindfocus/internal/modules/prompts/service"
	"mindfocus/internal/platform/random"
)

type Interactor struct {
	svc *service.PromptService
	rng random.Source
}

func NewInteractor(svc *service.PromptService, rng random.Source) promptsin.Usecase {
	return &Interactor{svc: svc, rng: rng}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Bank(ctx context.Context, subject string) (domain.Bank, error) {
	return i.svc.Bank(ctx, subject)
}

func (i *Interactor) Quiz(ctx context.Context, subject string) (dto.QuizOutput, error) {
	bank, err := i.svc.Bank(ctx, subject)
	if err != nil {
		return dto.QuizOutput{}, err
	}
	question, rationale := bank.QuizQuestion(subject, i.rng)
	return dto.QuizOutput{Category: bank.Classify(subject), Question: question, Rationale: rationale}, nil
}
