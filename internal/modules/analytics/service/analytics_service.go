package service

import (
	"context"
	"fmt"
	"strings"

	"mindfocus/internal/modules/analytics/domain"
	analyticsout "mindfocus/internal/modules/analytics/port/out"
	apperrors "mindfocus/internal/platform/errors"
)

type AnalyticsService struct {
	index analyticsout.SessionIndex
	notes analyticsout.NoteReader
}

func NewAnalyticsService(index analyticsout.SessionIndex, notes analyticsout.NoteReader) *AnalyticsService {
	return &AnalyticsService{index: index, notes: notes}
}

func (s *AnalyticsService) Summary(ctx context.Context, recent int) (domain.Summary, error) {
	records, err := s.index.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(records, recent), nil
}

func (s *AnalyticsService) List(ctx context.Context, limit int) ([]domain.Record, error) {
	records, err := s.index.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Recent(records, limit), nil
}

func (s *AnalyticsService) Show(ctx context.Context, id string) (domain.Record, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Record{}, "", fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	matches, err := s.index.FindByPrefix(ctx, id)
	if err != nil {
		return domain.Record{}, "", err
	}
	var record domain.Record
	switch {
	case len(matches) == 0:
		return domain.Record{}, "", fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	case len(matches) > 1:
		exact := false
		for _, m := range matches {
			if m.ID == id {
				record, exact = m, true
			}
		}
		if !exact {
			return domain.Record{}, "", fmt.Errorf("%w: session prefix %s is ambiguous", apperrors.ErrInvalidInput, id)
		}
	default:
		record = matches[0]
	}
	body, err := s.notes.Read(ctx, record.NotePath)
	if err != nil {
		return domain.Record{}, "", err
	}
	return record, body, nil
}
