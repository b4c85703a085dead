package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type ProductRepo interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

type ProductService struct {
	Repo   ProductRepo
	Index  search.Index // optional
	Events events.Publisher
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		Name:  strings.TrimSpace(req.Name),
		Price: *req.Price,
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, productKey(p.ID), events.ProductEvent{
		Type:      events.ProductCreated,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     &p.Price,
	})
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
		}
		p.Name = name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("save product %d: %w", id, err)
	}

	s.index(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, productKey(p.ID), events.ProductEvent{
		Type:      events.ProductUpdated,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     &p.Price,
	})
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	if s.Index != nil {
		idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()
		if err := s.Index.DeleteProduct(idxCtx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, productKey(id), events.ProductEvent{
		Type:      events.ProductDeleted,
		ProductID: id,
	})
	return nil
}

// Search queries the search index when one is configured and falls back to
// a name match in the database otherwise, or when the index is unavailable.
func (s *ProductService) Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, ErrEmptyQuery
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, from, size)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "query", q, "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, from, size)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	return total, items, nil
}

func (s *ProductService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.Index.IndexProduct(idxCtx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func productKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
