package ordersclient

import (
	"context"
	"net/http"
	"time"

	"github.com/vyatkin0/micro-services/pkg/rpcclient"
)

type Address struct {
	Street      string `json:"street" validate:"required"`
	ZipCode     string `json:"zipCode" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required"`
}

type OrderProduct struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateRequest struct {
	Comment  string  `json:"comment"`
	User     *uint   `json:"user,omitempty"`
	Customer string  `json:"customer" validate:"required"`
	Address  Address `json:"address" validate:"required"`
	Products []uint  `json:"products"`
}

type UpdateRequest struct {
	ID       uint     `json:"id" validate:"required"`
	Comment  *string  `json:"comment,omitempty"`
	User     *uint    `json:"user,omitempty"`
	Customer *string  `json:"customer,omitempty"`
	Address  *Address `json:"address,omitempty"`
	Products []uint   `json:"products,omitempty"`
}

type OrderID struct {
	ID uint `json:"id" validate:"required"`
}

type Order struct {
	ID        uint           `json:"id"`
	Comment   string         `json:"comment"`
	User      uint           `json:"user"`
	Customer  string         `json:"customer"`
	CreatedAt time.Time      `json:"createdAt"`
	Address   Address        `json:"address"`
	Products  []OrderProduct `json:"products"`
}

type ListRequest struct {
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

type ListResponse struct {
	Orders []Order `json:"ordersList"`
	Offset int     `json:"offset"`
	Count  int     `json:"count"`
	Total  int64   `json:"total"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type Client struct {
	Conn *rpcclient.Conn
}

func New(conn *rpcclient.Conn) *Client { return &Client{Conn: conn} }

func (c *Client) List(ctx context.Context, in *ListRequest, h http.Header) (*ListResponse, error) {
	var out ListResponse
	if err := c.Conn.Post(ctx, "/orders/List", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, in *OrderID, h http.Header) (*Order, error) {
	var out Order
	if err := c.Conn.Post(ctx, "/orders/Get", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in *CreateRequest, h http.Header) (*Order, error) {
	var out Order
	if err := c.Conn.Post(ctx, "/orders/Create", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, in *UpdateRequest, h http.Header) (*Order, error) {
	var out Order
	if err := c.Conn.Post(ctx, "/orders/Update", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, in *OrderID, h http.Header) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.Conn.Post(ctx, "/orders/Delete", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}
