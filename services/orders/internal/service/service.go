package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/ordersclient"
	"github.com/vyatkin0/micro-services/pkg/productsclient"
	"github.com/vyatkin0/micro-services/services/orders/internal/events"
	"github.com/vyatkin0/micro-services/services/orders/internal/models"
	"github.com/vyatkin0/micro-services/services/orders/internal/repo"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	publishTimeout = 5 * time.Second
)

type OrderService struct {
	Repo     *repo.OrderRepo
	Events   *events.Producer      // nil when no broker is configured
	Products *productsclient.Client // nil when product names are not resolved
}

func (s *OrderService) List(ctx context.Context, userIDs []uint, req *ordersclient.ListRequest) (*ordersclient.ListResponse, error) {
	offset, count := req.Offset, req.Count
	if offset < 0 {
		offset = 0
	}
	if count <= 0 {
		count = defaultPageSize
	}
	if count > maxPageSize {
		count = maxPageSize
	}

	orders, total, err := s.Repo.List(ctx, userIDs, offset, count)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &ordersclient.ListResponse{
		Orders: make([]ordersclient.Order, 0, len(orders)),
		Offset: offset,
		Count:  count,
		Total:  total,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, orderOf(&orders[i]))
	}
	return resp, nil
}

func (s *OrderService) Get(ctx context.Context, userIDs []uint, id uint) (*ordersclient.Order, error) {
	order, err := s.Repo.ByID(ctx, id, userIDs)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, internalErr(err)
	}
	out := orderOf(order)
	return &out, nil
}

func (s *OrderService) Create(ctx context.Context, ownerID uint, req *ordersclient.CreateRequest, headers http.Header) (*ordersclient.Order, error) {
	order := &models.Order{
		Comment:  req.Comment,
		UserID:   ownerID,
		Customer: req.Customer,
		Address: models.Address{
			Street:      req.Address.Street,
			ZipCode:     req.Address.ZipCode,
			CountryCode: req.Address.CountryCode,
		},
		Items: s.resolveItems(ctx, req.Products, headers),
	}

	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, internalErr(err)
	}

	s.publish(ctx, order.ID, map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  order.UserID,
	})
	logging.FromContext(ctx).Info("order created", "order_id", order.ID, "user_id", order.UserID)

	out := orderOf(order)
	return &out, nil
}

func (s *OrderService) Update(ctx context.Context, userIDs []uint, req *ordersclient.UpdateRequest, headers http.Header) (*ordersclient.Order, error) {
	order, err := s.Repo.ByID(ctx, req.ID, userIDs)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(req.ID)
		}
		return nil, internalErr(err)
	}

	if req.Comment != nil {
		order.Comment = *req.Comment
	}
	if req.User != nil {
		order.UserID = *req.User
	}
	if req.Customer != nil {
		order.Customer = *req.Customer
	}
	if req.Address != nil {
		order.Address = models.Address{
			Street:      req.Address.Street,
			ZipCode:     req.Address.ZipCode,
			CountryCode: req.Address.CountryCode,
		}
	}

	var items []models.OrderItem
	if req.Products != nil {
		items = s.resolveItems(ctx, req.Products, headers)
	}

	if err := s.Repo.Update(ctx, order, items); err != nil {
		return nil, internalErr(err)
	}

	s.publish(ctx, order.ID, map[string]any{
		"type":    "order_updated",
		"orderID": order.ID,
		"userID":  order.UserID,
	})

	out := orderOf(order)
	return &out, nil
}

func (s *OrderService) Delete(ctx context.Context, userIDs []uint, id uint) (*ordersclient.StatusResponse, error) {
	if err := s.Repo.Delete(ctx, id, userIDs); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, internalErr(err)
	}

	s.publish(ctx, id, map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})
	logging.FromContext(ctx).Info("order deleted", "order_id", id)

	return &ordersclient.StatusResponse{Status: "Success"}, nil
}

// resolveItems turns product ids into order items. Names come from the
// products backend when one is wired, forwarding the caller's token;
// a failed lookup degrades to an id-only item.
func (s *OrderService) resolveItems(ctx context.Context, productIDs []uint, headers http.Header) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(productIDs))
	for _, id := range productIDs {
		item := models.OrderItem{ProductID: id}
		if s.Products != nil {
			product, err := s.Products.Get(ctx, &productsclient.ProductID{ID: id}, headers)
			if err != nil {
				logging.FromContext(ctx).Warn("product lookup failed", "product_id", id, "error", err)
			} else {
				item.Name = product.Name
			}
		}
		items = append(items, item)
	}
	return items
}

// publish is best effort: the event stream lags the store on failure,
// the write does not roll back.
func (s *OrderService) publish(ctx context.Context, orderID uint, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	key := strconv.FormatUint(uint64(orderID), 10)
	if err := s.Events.Publish(pubCtx, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "order_id", orderID, "error", err)
	}
}

func notFound(id uint) error {
	return status.Errorf(codes.NotFound, "No order found with id %d", id)
}

func internalErr(err error) error {
	return status.Error(codes.Internal, fmt.Sprintf("Internal error. %v", err))
}

func orderOf(o *models.Order) ordersclient.Order {
	out := ordersclient.Order{
		ID:        o.ID,
		Comment:   o.Comment,
		User:      o.UserID,
		Customer:  o.Customer,
		CreatedAt: o.CreatedAt,
		Address: ordersclient.Address{
			Street:      o.Address.Street,
			ZipCode:     o.Address.ZipCode,
			CountryCode: o.Address.CountryCode,
		},
		Products: make([]ordersclient.OrderProduct, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		out.Products = append(out.Products, ordersclient.OrderProduct{ID: item.ProductID, Name: item.Name})
	}
	return out
}
