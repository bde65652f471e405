package usecase

import (
	"context"

	"mindfocus/internal/modules/analytics/domain"
	"mindfocus/internal/modules/analytics/dto"
	analyticsin "mindfocus/internal/modules/analytics/port/in"
	"mindfocus/internal/modules/analytics/service"
)

type Interactor struct {
	svc *service.AnalyticsService
}

func NewInteractor(svc *service.AnalyticsService) analyticsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Summary(ctx context.Context, recent int) (dto.SummaryOutput, error) {
	s, err := i.svc.Summary(ctx, recent)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	out := dto.SummaryOutput{
		Sessions:     s.Sessions,
		TotalMinutes: s.TotalMinutes,
		AverageFocus: s.AverageFocus,
		EnergyDrinks: s.EnergyDrinks,
		Snacks:       s.Snacks,
		ByCategory:   make([]dto.CategoryOutput, 0, len(s.ByCategory)),
		Weekly:       make([]dto.WeekOutput, 0, len(s.Weekly)),
		Recent:       toSessionOutputs(s.Recent),
	}
	for _, c := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, dto.CategoryOutput{
			Category:     c.Category,
			Sessions:     c.Sessions,
			Minutes:      c.Minutes,
			AverageFocus: c.AverageFocus,
		})
	}
	for _, w := range s.Weekly {
		out.Weekly = append(out.Weekly, dto.WeekOutput{
			Week:         w.Label(),
			Sessions:     w.Sessions,
			EnergyDrinks: w.EnergyDrinks,
			Snacks:       w.Snacks,
		})
	}
	return out, nil
}

func (i *Interactor) List(ctx context.Context, limit int) ([]dto.SessionOutput, error) {
	records, err := i.svc.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(records), nil
}

func (i *Interactor) Show(ctx context.Context, id string) (dto.NoteOutput, error) {
	record, body, err := i.svc.Show(ctx, id)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return dto.NoteOutput{Session: toSessionOutput(record), Markdown: body}, nil
}

func toSessionOutputs(records []domain.Record) []dto.SessionOutput {
	out := make([]dto.SessionOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toSessionOutput(r))
	}
	return out
}

func toSessionOutput(r domain.Record) dto.SessionOutput {
	return dto.SessionOutput{
		ID:             r.ID,
		Reason:         r.Reason,
		Category:       r.Category,
		PlannedMinutes: r.PlannedMinutes,
		StartedAt:      r.StartedAt,
		DurationMin:    r.DurationMin,
		FinalFocus:     r.FinalFocus,
		AverageFocus:   r.AverageFocus,
		EnergyDrinks:   r.EnergyDrinks,
		Snacks:         r.Snacks,
		NotePath:       r.NotePath,
	}
}
