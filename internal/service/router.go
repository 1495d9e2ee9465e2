package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mikrodash/mikrodash/internal/domain"
	"github.com/mikrodash/mikrodash/internal/store"
)

// ErrRouterNotFound merges "doesn't exist" and "belongs to another tenant"
// into one outcome, so cross-tenant probing learns nothing.
var ErrRouterNotFound = errors.New("router not found or you do not have permission to access it")

// RouterService is the tenant-scoped CRUD over managed devices. Every
// operation takes the caller's verified identity; the tenant id is stamped
// from it and never from request input.
type RouterService struct {
	routers domain.RouterStore
}

func NewRouterService(routers domain.RouterStore) *RouterService {
	return &RouterService{routers: routers}
}

type RouterInput struct {
	Name     string
	IP       string
	Username string
	Password string
}

func (s *RouterService) Create(ctx context.Context, id domain.Identity, in RouterInput) (*domain.Router, error) {
	if in.Name == "" || in.IP == "" || in.Username == "" {
		return nil, ErrValidation
	}

	router := &domain.Router{
		Name:     in.Name,
		IP:       in.IP,
		Username: in.Username,
		Password: in.Password,
		TenantID: id.TenantID,
	}
	if err := s.routers.Create(ctx, router); err != nil {
		return nil, classifyTimeout(err)
	}
	return router, nil
}

func (s *RouterService) List(ctx context.Context, id domain.Identity) ([]domain.Router, error) {
	routers, err := s.routers.ListByTenant(ctx, id.TenantID)
	if err != nil {
		return nil, classifyTimeout(err)
	}
	return routers, nil
}

func (s *RouterService) Update(ctx context.Context, id domain.Identity, routerID uuid.UUID, in RouterInput) (*domain.Router, error) {
	if in.Name == "" || in.IP == "" || in.Username == "" {
		return nil, ErrValidation
	}

	router := &domain.Router{
		ID:       routerID,
		Name:     in.Name,
		IP:       in.IP,
		Username: in.Username,
		Password: in.Password,
		TenantID: id.TenantID,
	}
	if err := s.routers.Update(ctx, router); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRouterNotFound
		}
		return nil, classifyTimeout(err)
	}
	return router, nil
}

func (s *RouterService) Delete(ctx context.Context, id domain.Identity, routerID uuid.UUID) error {
	if err := s.routers.Delete(ctx, routerID, id.TenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRouterNotFound
		}
		return classifyTimeout(err)
	}
	return nil
}
