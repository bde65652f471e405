package out

import (
	"context"
	"log/slog"

	promptsdomain "mindfocus/internal/modules/prompts/domain"
	promptsin "mindfocus/internal/modules/prompts/port/in"
	"mindfocus/internal/modules/session/domain"
	sessionout "mindfocus/internal/modules/session/port/out"
)

// PromptSource adapts the prompts module to the session engine.
type PromptSource struct {
	prompts promptsin.Usecase
	logger  *slog.Logger
}

func NewPromptSource(prompts promptsin.Usecase, logger *slog.Logger) sessionout.PromptSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptSource{prompts: prompts, logger: logger}
}

func (p *PromptSource) Prompter(ctx context.Context, subject string) domain.Prompter {
	if p.prompts == nil {
		return promptsdomain.DefaultBank()
	}
	bank, err := p.prompts.Bank(ctx, subject)
	if err != nil {
		p.logger.Warn("load prompt bank, using built-in bank", "error", err)
		return promptsdomain.DefaultBank()
	}
	return bank
}
