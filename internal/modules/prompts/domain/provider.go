package domain

import (
	"fmt"
	"regexp"
)

// Capability names the bank sections a provider contributes.
type Capability string

const (
	CapabilityReminders Capability = "reminders"
	CapabilityFacts     Capability = "facts"
	CapabilityQuiz      Capability = "quiz"
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `yaml:"name"`
	Version      string       `yaml:"version"`
	Binary       string       `yaml:"binary"`
	SHA256       string       `yaml:"sha256"`
	Enabled      bool         `yaml:"enabled"`
	Capabilities []Capability `yaml:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("provider version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("provider binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("provider sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("provider capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityReminders, CapabilityFacts, CapabilityQuiz:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Restrict drops the bank sections the manifest does not declare.
func (m Manifest) Restrict(b Bank) Bank {
	if !m.HasCapability(CapabilityReminders) {
		b.BreakReminders = nil
	}
	if !m.HasCapability(CapabilityFacts) {
		b.Facts = nil
	}
	if !m.HasCapability(CapabilityQuiz) {
		b.Categories = nil
		b.Default = nil
	}
	return b
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}
