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

	"github.com/vyatkin0/micro-services/pkg/ordersclient"
	"github.com/vyatkin0/micro-services/services/orders/internal/repo"
)

func newTestService(t *testing.T) *OrderService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	r := &repo.OrderRepo{DB: db}
	require.NoError(t, r.Migrate())

	// No broker and no products backend: events are skipped and order
	// items keep id-only names.
	return &OrderService{Repo: r}
}

func testAddress() ordersclient.Address {
	return ordersclient.Address{Street: "Main St 1", ZipCode: "10115", CountryCode: "DE"}
}

func createOrder(t *testing.T, s *OrderService, ownerID uint, products ...uint) *ordersclient.Order {
	t.Helper()

	order, err := s.Create(context.Background(), ownerID, &ordersclient.CreateRequest{
		Comment:  "leave at the door",
		Customer: "ACME GmbH",
		Address:  testAddress(),
		Products: products,
	}, nil)
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	return order
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createOrder(t, s, 7, 1, 2)
	assert.Equal(t, uint(7), created.User)
	require.Len(t, created.Products, 2)
	assert.Equal(t, uint(1), created.Products[0].ID)
	assert.Empty(t, created.Products[0].Name)

	got, err := s.Get(ctx, []uint{7}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "leave at the door", got.Comment)
	assert.Equal(t, testAddress(), got.Address)
	require.Len(t, got.Products, 2)
}

func TestGetScopedToAuthorizedUsers(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createOrder(t, s, 7)

	// An order of another user is indistinguishable from a missing one.
	_, err := s.Get(ctx, []uint{8}, created.ID)
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, fmt.Sprintf("No order found with id %d", created.ID), st.Message())
}

func TestListPagingClamps(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createOrder(t, s, 7)
	}
	createOrder(t, s, 8)

	res, err := s.List(ctx, []uint{7}, &ordersclient.ListRequest{Offset: -5, Count: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Offset)
	assert.Equal(t, defaultPageSize, res.Count)
	assert.Equal(t, int64(3), res.Total)
	assert.Len(t, res.Orders, 3)

	res, err = s.List(ctx, []uint{7}, &ordersclient.ListRequest{Offset: 1, Count: maxPageSize + 1})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, res.Count)
	assert.Len(t, res.Orders, 2)
	assert.Equal(t, int64(3), res.Total)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	first := createOrder(t, s, 7)
	second := createOrder(t, s, 7)

	res, err := s.List(context.Background(), []uint{7}, &ordersclient.ListRequest{})
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.Equal(t, second.ID, res.Orders[0].ID)
	assert.Equal(t, first.ID, res.Orders[1].ID)
}

func TestUpdateMergesPresentFields(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createOrder(t, s, 7, 1)

	comment := "ring the bell"
	updated, err := s.Update(ctx, []uint{7}, &ordersclient.UpdateRequest{
		ID:      created.ID,
		Comment: &comment,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ring the bell", updated.Comment)
	assert.Equal(t, created.Customer, updated.Customer)

	// Absent products leave the item list untouched.
	got, err := s.Get(ctx, []uint{7}, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
}

func TestUpdateReplacesProducts(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createOrder(t, s, 7, 1, 2)

	_, err := s.Update(ctx, []uint{7}, &ordersclient.UpdateRequest{
		ID:       created.ID,
		Products: []uint{3},
	}, nil)
	require.NoError(t, err)

	got, err := s.Get(ctx, []uint{7}, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, uint(3), got.Products[0].ID)
}

func TestUpdateUnknownOrder(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	comment := "x"
	_, err := s.Update(context.Background(), []uint{7}, &ordersclient.UpdateRequest{
		ID:      99,
		Comment: &comment,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	ctx := context.Background()

	created := createOrder(t, s, 7, 1)

	// Deleting as another user fails before anything is removed.
	_, err := s.Delete(ctx, []uint{8}, created.ID)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))

	res, err := s.Delete(ctx, []uint{7}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Status)

	_, err = s.Get(ctx, []uint{7}, created.ID)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.Delete(ctx, []uint{7}, created.ID)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
