package skills

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidSkill indicates validation failure
	ErrInvalidSkill = errors.New("invalid skill")

	// ErrSkillNotFound indicates skill was not found
	ErrSkillNotFound = errors.New("skill not found")
)

// Skill represents a catalog entry matched against task descriptions.
type Skill struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate validates the skill fields.
func (s *Skill) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSkill)
	}
	if len(s.Name) > 200 {
		return fmt.Errorf("%w: name must be <= 200 characters", ErrInvalidSkill)
	}
	if len(s.Description) > 2000 {
		return fmt.Errorf("%w: description must be <= 2000 characters", ErrInvalidSkill)
	}
	if len(s.Keywords) == 0 && s.Description == "" {
		return fmt.Errorf("%w: at least one keyword or a description is required", ErrInvalidSkill)
	}
	return nil
}

// Document returns the text the skill is indexed under: the expanded
// name ("canvas-2d-reference" becomes "canvas 2d reference") followed by
// keywords and description, so both the name and its vocabulary act as
// matchable features.
func (s *Skill) Document() string {
	expanded := strings.NewReplacer("-", " ", "_", " ").Replace(s.Name)
	parts := []string{expanded}
	if len(s.Keywords) > 0 {
		parts = append(parts, strings.Join(s.Keywords, " "))
	}
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	return strings.Join(parts, " ")
}

// SearchResult represents a skill search result with score.
type SearchResult struct {
	Skill *Skill  `json:"skill"`
	Score float64 `json:"score"`
}

// UsageStats accumulates per-skill injection outcomes. Counters only
// grow; callers persist and restore them across runs in whatever format
// they choose.
type UsageStats struct {
	Injected  int       `json:"injected"`
	Succeeded int       `json:"succeeded"`
	Truncated int       `json:"truncated"`
	LastUsed  time.Time `json:"last_used"`
}
