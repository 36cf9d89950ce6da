package service

import (
	"context"
	"fmt"

	"github.com/ordenes/ordersys/internal/core/domain"
	"github.com/ordenes/ordersys/internal/port"
)

// ClientService is plain CRUD at the interface boundary; no invariants
// beyond input validation.
type ClientService struct {
	repo port.ClientRepository
}

func NewClientService(repo port.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) CreateClient(ctx context.Context, name, email string) (*domain.Client, error) {
	client, err := domain.NewClient(name, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveClient(ctx, *client); err != nil {
		return nil, fmt.Errorf("save client: %w", err)
	}
	return client, nil
}

func (s *ClientService) GetAllClients(ctx context.Context) ([]domain.Client, error) {
	return s.repo.GetClients(ctx)
}
