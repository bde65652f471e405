package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"mindfocus/internal/modules/prompts/domain"
	"mindfocus/internal/modules/prompts/dto"
	promptsout "mindfocus/internal/modules/prompts/port/out"
	apperrors "mindfocus/internal/platform/errors"
)

type PromptService struct {
	store  promptsout.ManifestStore
	host   promptsout.Host
	logger *slog.Logger
}

func NewPromptService(store promptsout.ManifestStore, host promptsout.Host, logger *slog.Logger) *PromptService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PromptService{store: store, host: host, logger: logger}
}

func (s *PromptService) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.ProviderInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *PromptService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
			results = append(results, result)
			continue
		}
		result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		if !result.ChecksumValid {
			result.Error = "checksum mismatch"
			results = append(results, result)
			continue
		}
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// Bank merges every enabled provider into the built-in bank. A provider
// that fails is logged and skipped; only a broken manifest file fails the
// call.
func (s *PromptService) Bank(ctx context.Context, subject string) (domain.Bank, error) {
	bank := domain.DefaultBank()
	if s.store == nil {
		return bank, nil
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return bank, err
	}
	for _, m := range manifests {
		if err := s.runnable(m); err != nil {
			s.logger.Debug("skipping provider", "provider", m.Name, "reason", err)
			continue
		}
		extra, err := s.host.FetchBank(ctx, m, subject)
		if err != nil {
			s.logger.Warn("provider bank unavailable", "provider", m.Name, "error", err)
			continue
		}
		bank = bank.Merge(m.Restrict(extra))
		s.logger.Info("provider bank merged", "provider", m.Name, "categories", len(extra.Categories))
	}
	return bank, nil
}

func (s *PromptService) runnable(m domain.Manifest) error {
	if !m.Enabled {
		return fmt.Errorf("%w: %s", apperrors.ErrPluginDisabled, m.Name)
	}
	if s.host == nil {
		return fmt.Errorf("%w: no provider host", apperrors.ErrPluginUnsupported)
	}
	return checksumMatches(m.Binary, m.SHA256)
}

func (s *PromptService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, fmt.Errorf("%w: provider %q: %v", apperrors.ErrInvalidInput, manifest.Name, err)
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate provider name: %s", apperrors.ErrInvalidInput, manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func checksumMatches(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrPluginNotFound, path)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash provider binary: %w", err)
	}
	if hex.EncodeToString(h.Sum(nil)) != expected {
		return apperrors.ErrPluginChecksum
	}
	return nil
}
