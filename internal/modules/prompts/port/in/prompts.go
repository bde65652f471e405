package in

import (
	"context"

	"mindfocus/internal/modules/prompts/domain"
	"mindfocus/internal/modules/prompts/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ProviderInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	// Bank returns the built-in bank merged with every healthy enabled
	// provider's contribution for subject.
	Bank(ctx context.Context, subject string) (domain.Bank, error)
	Quiz(ctx context.Context, subject string) (dto.QuizOutput, error)
}
