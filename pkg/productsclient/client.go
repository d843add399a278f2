package productsclient

import (
	"context"
	"net/http"

	"github.com/vyatkin0/micro-services/pkg/rpcclient"
)

type Product struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProductID struct {
	ID uint `json:"id" validate:"required"`
}

type CreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateRequest struct {
	ID   uint   `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type ListResponse struct {
	Products []Product `json:"products"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type Client struct {
	Conn *rpcclient.Conn
}

func New(conn *rpcclient.Conn) *Client { return &Client{Conn: conn} }

func (c *Client) List(ctx context.Context, h http.Header) (*ListResponse, error) {
	var out ListResponse
	if err := c.Conn.Post(ctx, "/products/List", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, in *ProductID, h http.Header) (*Product, error) {
	var out Product
	if err := c.Conn.Post(ctx, "/products/Get", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in *CreateRequest, h http.Header) (*Product, error) {
	var out Product
	if err := c.Conn.Post(ctx, "/products/Create", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, in *UpdateRequest, h http.Header) (*Product, error) {
	var out Product
	if err := c.Conn.Post(ctx, "/products/Update", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, in *ProductID, h http.Header) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.Conn.Post(ctx, "/products/Delete", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, in *SearchRequest, h http.Header) (*ListResponse, error) {
	var out ListResponse
	if err := c.Conn.Post(ctx, "/products/Search", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}
