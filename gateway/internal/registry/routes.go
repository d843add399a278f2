package registry

import (
	"context"
	"net/http"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/ordersclient"
	"github.com/vyatkin0/micro-services/pkg/productsclient"
)

type Clients struct {
	Identity *identityclient.Client
	Products *productsclient.Client
	Orders   *ordersclient.Client
}

// Build wires every reachable backend method into a registry. Adding
// a backend method means adding one entry here.
func Build(c *Clients) *Registry {
	r := New()

	r.Add("Identity", "Accounts", "Login", Handler{
		NewPayload: func() any { return new(identityclient.LoginRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.Login(ctx, payload.(*identityclient.LoginRequest), h)
		},
	})
	r.Add("Identity", "Accounts", "Register", Handler{
		NewPayload: func() any { return new(identityclient.RegisterRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.Register(ctx, payload.(*identityclient.RegisterRequest), h)
		},
	})
	r.Add("Identity", "Accounts", "Logout", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Identity.Logout(ctx, h)
		},
	})
	r.Add("Identity", "Accounts", "List", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Identity.List(ctx, h)
		},
	})

	r.Add("Identity", "Manage", "Info", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Identity.Info(ctx, h)
		},
	})
	r.Add("Identity", "Manage", "Update", Handler{
		NewPayload: func() any { return new(identityclient.UpdateRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.Update(ctx, payload.(*identityclient.UpdateRequest), h)
		},
	})
	r.Add("Identity", "Manage", "ChangePassword", Handler{
		NewPayload: func() any { return new(identityclient.ChangePasswordRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.ChangePassword(ctx, payload.(*identityclient.ChangePasswordRequest), h)
		},
	})
	r.Add("Identity", "Manage", "GetTenants", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Identity.GetTenants(ctx, h)
		},
	})

	r.Add("Identity", "Roles", "RolesList", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Identity.RolesList(ctx, h)
		},
	})
	r.Add("Identity", "Roles", "PrivilegesList", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Identity.PrivilegesList(ctx, h)
		},
	})
	r.Add("Identity", "Roles", "AssignUserRoles", Handler{
		NewPayload: func() any { return new(identityclient.UserRoleRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.AssignUserRoles(ctx, payload.(*identityclient.UserRoleRequest), h)
		},
	})
	r.Add("Identity", "Roles", "RemoveUserRoles", Handler{
		NewPayload: func() any { return new(identityclient.UserRoleRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.RemoveUserRoles(ctx, payload.(*identityclient.UserRoleRequest), h)
		},
	})
	r.Add("Identity", "Roles", "GetUserRoles", Handler{
		NewPayload: func() any { return new(identityclient.UserRolesRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.GetUserRoles(ctx, payload.(*identityclient.UserRolesRequest), h)
		},
	})
	r.Add("Identity", "Roles", "GetUsersRoles", Handler{
		NewPayload: func() any { return new(identityclient.UsersRolesRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.GetUsersRoles(ctx, payload.(*identityclient.UsersRolesRequest), h)
		},
	})
	r.Add("Identity", "Roles", "GetRoleUsers", Handler{
		NewPayload: func() any { return new(identityclient.RoleRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.GetRoleUsers(ctx, payload.(*identityclient.RoleRequest), h)
		},
	})
	r.Add("Identity", "Roles", "RoleCreate", Handler{
		NewPayload: func() any { return new(identityclient.RoleCreateRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.RoleCreate(ctx, payload.(*identityclient.RoleCreateRequest), h)
		},
	})
	r.Add("Identity", "Roles", "RoleEdit", Handler{
		NewPayload: func() any { return new(identityclient.Role) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.RoleEdit(ctx, payload.(*identityclient.Role), h)
		},
	})
	r.Add("Identity", "Roles", "RoleRemove", Handler{
		NewPayload: func() any { return new(identityclient.RoleRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.RoleRemove(ctx, payload.(*identityclient.RoleRequest), h)
		},
	})
	r.Add("Identity", "Roles", "RoleInfo", Handler{
		NewPayload: func() any { return new(identityclient.RoleRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.RoleInfo(ctx, payload.(*identityclient.RoleRequest), h)
		},
	})

	r.Add("Identity", "Users", "AttachUser", Handler{
		NewPayload: func() any { return new(identityclient.AppUserID) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.AttachUser(ctx, payload.(*identityclient.AppUserID), h)
		},
	})
	r.Add("Identity", "Users", "DetachUser", Handler{
		NewPayload: func() any { return new(identityclient.AppUserID) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.DetachUser(ctx, payload.(*identityclient.AppUserID), h)
		},
	})
	r.Add("Identity", "Users", "FindUserByName", Handler{
		NewPayload: func() any { return new(identityclient.FindUserByNameRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Identity.FindUserByName(ctx, payload.(*identityclient.FindUserByNameRequest), h)
		},
	})

	r.Add("Products", "Products", "List", Handler{
		Invoke: func(ctx context.Context, _ any, h http.Header) (any, error) {
			return c.Products.List(ctx, h)
		},
	})
	r.Add("Products", "Products", "Get", Handler{
		NewPayload: func() any { return new(productsclient.ProductID) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Products.Get(ctx, payload.(*productsclient.ProductID), h)
		},
	})
	r.Add("Products", "Products", "Create", Handler{
		NewPayload: func() any { return new(productsclient.CreateRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Products.Create(ctx, payload.(*productsclient.CreateRequest), h)
		},
	})
	r.Add("Products", "Products", "Update", Handler{
		NewPayload: func() any { return new(productsclient.UpdateRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Products.Update(ctx, payload.(*productsclient.UpdateRequest), h)
		},
	})
	r.Add("Products", "Products", "Delete", Handler{
		NewPayload: func() any { return new(productsclient.ProductID) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Products.Delete(ctx, payload.(*productsclient.ProductID), h)
		},
	})
	r.Add("Products", "Products", "Search", Handler{
		NewPayload: func() any { return new(productsclient.SearchRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Products.Search(ctx, payload.(*productsclient.SearchRequest), h)
		},
	})

	r.Add("Orders", "Orders", "List", Handler{
		NewPayload: func() any { return new(ordersclient.ListRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Orders.List(ctx, payload.(*ordersclient.ListRequest), h)
		},
	})
	r.Add("Orders", "Orders", "Get", Handler{
		NewPayload: func() any { return new(ordersclient.OrderID) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Orders.Get(ctx, payload.(*ordersclient.OrderID), h)
		},
	})
	r.Add("Orders", "Orders", "Create", Handler{
		NewPayload: func() any { return new(ordersclient.CreateRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Orders.Create(ctx, payload.(*ordersclient.CreateRequest), h)
		},
	})
	r.Add("Orders", "Orders", "Update", Handler{
		NewPayload: func() any { return new(ordersclient.UpdateRequest) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Orders.Update(ctx, payload.(*ordersclient.UpdateRequest), h)
		},
	})
	r.Add("Orders", "Orders", "Delete", Handler{
		NewPayload: func() any { return new(ordersclient.OrderID) },
		Invoke: func(ctx context.Context, payload any, h http.Header) (any, error) {
			return c.Orders.Delete(ctx, payload.(*ordersclient.OrderID), h)
		},
	})

	return r
}
