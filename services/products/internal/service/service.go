package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/productsclient"
	"github.com/vyatkin0/micro-services/services/products/internal/models"
	"github.com/vyatkin0/micro-services/services/products/internal/repo"
	"github.com/vyatkin0/micro-services/services/products/internal/search"
)

const searchPageSize = 50

type ProductService struct {
	Repo  *repo.ProductRepo
	Index *search.Index // nil when no search backend is configured
}

func (s *ProductService) List(ctx context.Context) (*productsclient.ListResponse, error) {
	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, internalErr(err)
	}
	return listResponse(products), nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*productsclient.Product, error) {
	product, err := s.Repo.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, internalErr(err)
	}
	out := productOf(product)
	return &out, nil
}

func (s *ProductService) Create(ctx context.Context, req *productsclient.CreateRequest) (*productsclient.Product, error) {
	product := &models.Product{Name: req.Name}
	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, internalErr(err)
	}

	s.index(ctx, product)
	logging.FromContext(ctx).Info("product created", "product_id", product.ID)

	out := productOf(product)
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, req *productsclient.UpdateRequest) (*productsclient.Product, error) {
	product, err := s.Repo.ByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(req.ID)
		}
		return nil, internalErr(err)
	}

	product.Name = req.Name
	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, internalErr(err)
	}

	s.index(ctx, product)

	out := productOf(product)
	return &out, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) (*productsclient.StatusResponse, error) {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, internalErr(err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search deindex failed", "product_id", id, "error", err)
		}
	}

	logging.FromContext(ctx).Info("product deleted", "product_id", id)
	return &productsclient.StatusResponse{Status: "Success"}, nil
}

// Search queries the index when one is configured and falls back to a
// name match in the database otherwise.
func (s *ProductService) Search(ctx context.Context, req *productsclient.SearchRequest) (*productsclient.ListResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &productsclient.ListResponse{Products: []productsclient.Product{}}, nil
	}

	var (
		products []models.Product
		err      error
	)
	if s.Index != nil {
		products, err = s.Index.Search(ctx, query, 0, searchPageSize)
	} else {
		products, err = s.Repo.SearchByName(ctx, query)
	}
	if err != nil {
		return nil, internalErr(err)
	}
	return listResponse(products), nil
}

// index is best effort: a stale search document must not fail the
// write that caused it.
func (s *ProductService) index(ctx context.Context, product *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Warn("search index failed", "product_id", product.ID, "error", err)
	}
}

func notFound(id uint) error {
	return status.Errorf(codes.NotFound, "No product found with id %d", id)
}

func internalErr(err error) error {
	return status.Error(codes.Internal, fmt.Sprintf("Internal error. %v", err))
}

func productOf(p *models.Product) productsclient.Product {
	return productsclient.Product{ID: p.ID, Name: p.Name}
}

func listResponse(products []models.Product) *productsclient.ListResponse {
	out := &productsclient.ListResponse{Products: make([]productsclient.Product, 0, len(products))}
	for i := range products {
		out.Products = append(out.Products, productOf(&products[i]))
	}
	return out
}
