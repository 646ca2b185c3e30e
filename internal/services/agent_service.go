// Package services – AgentService
//
// Agent records are managed by the admin API: CRUD plus a credits ledger
// with a zero floor. Assignment of hot leads to agents happens in
// LeadService; this service only manages the records themselves.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

// AgentService manages licensed-agent records and their credits.
type AgentService struct {
	DB *gorm.DB
}

// Create stores a new agent record.
func (s *AgentService) Create(ctx context.Context, a *domain.Agent) error {
	return repo.CreateAgent(ctx, s.DB, a)
}

// List returns every agent in insertion order.
func (s *AgentService) List(ctx context.Context) ([]domain.Agent, error) {
	return repo.ListAgents(ctx, s.DB)
}

// Get returns one agent by ID.
func (s *AgentService) Get(ctx context.Context, id string) (*domain.Agent, error) {
	a, err := repo.GetAgent(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAgentNotFound
	}
	return a, err
}

// Update applies a column map to an agent record.
func (s *AgentService) Update(ctx context.Context, id string, cols map[string]any) error {
	err := repo.UpdateAgent(ctx, s.DB, id, cols)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAgentNotFound
	}
	return err
}

// Delete removes an agent record.
func (s *AgentService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteAgent(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAgentNotFound
	}
	return err
}

// SetCredits overwrites the agent's credit balance, flooring at zero.
func (s *AgentService) SetCredits(ctx context.Context, id string, credits int) error {
	err := repo.SetCredits(ctx, s.DB, id, credits)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAgentNotFound
	}
	return err
}

// AdjustCredits applies a signed delta to the agent's credit balance,
// flooring at zero, and returns the new balance.
func (s *AgentService) AdjustCredits(ctx context.Context, id string, delta int) (int, error) {
	n, err := repo.AdjustCredits(ctx, s.DB, id, delta)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, ErrAgentNotFound
	}
	return n, err
}
