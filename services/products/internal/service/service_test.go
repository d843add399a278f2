package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/pkg/productsclient"
	"github.com/vyatkin0/micro-services/services/products/internal/repo"
)

func newTestService(t *testing.T) *ProductService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	r := &repo.ProductRepo{DB: db}
	require.NoError(t, r.Migrate())

	// No search index configured: Search falls back to the database.
	return &ProductService{Repo: r}
}

func createProduct(t *testing.T, s *ProductService, name string) *productsclient.Product {
	t.Helper()

	product, err := s.Create(context.Background(), &productsclient.CreateRequest{Name: name})
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	return product
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createProduct(t, s, "keyboard")

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	_, err := s.Get(context.Background(), 42)
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "No product found with id 42", st.Message())
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createProduct(t, s, "mouse")

	updated, err := s.Update(ctx, &productsclient.UpdateRequest{ID: created.ID, Name: "trackball"})
	require.NoError(t, err)
	assert.Equal(t, "trackball", updated.Name)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "trackball", got.Name)

	_, err = s.Update(ctx, &productsclient.UpdateRequest{ID: 99, Name: "ghost"})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createProduct(t, s, "monitor")

	res, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Status)

	_, err = s.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.Delete(ctx, created.ID)
	require.Error(t, err)
	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, fmt.Sprintf("No product found with id %d", created.ID), st.Message())
}

func TestList(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	createProduct(t, s, "keyboard")
	createProduct(t, s, "mouse")

	res, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
}

func TestSearchDatabaseFallback(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	createProduct(t, s, "gaming keyboard")
	createProduct(t, s, "office keyboard")
	createProduct(t, s, "mouse")

	res, err := s.Search(ctx, &productsclient.SearchRequest{Query: "keyboard"})
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)

	res, err = s.Search(ctx, &productsclient.SearchRequest{Query: "webcam"})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
}

func TestSearchBlankQuery(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Search(context.Background(), &productsclient.SearchRequest{Query: "   "})
	require.NoError(t, err)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
}
