package identityclient

import (
	"context"
	"net/http"

	"github.com/vyatkin0/micro-services/pkg/rpcclient"
)

// Client is the typed client of the identity service, one method per
// exposed operation, grouped by interface the way the service routes
// them.
type Client struct {
	Conn *rpcclient.Conn
}

func New(conn *rpcclient.Conn) *Client { return &Client{Conn: conn} }

func (c *Client) Login(ctx context.Context, in *LoginRequest, h http.Header) (*LoginInfo, error) {
	var out LoginInfo
	if err := c.Conn.Post(ctx, "/accounts/Login", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, h http.Header) (*LoginInfo, error) {
	var out LoginInfo
	if err := c.Conn.Post(ctx, "/accounts/Register", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, h http.Header) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.Conn.Post(ctx, "/accounts/Logout", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, h http.Header) (*ListResponse, error) {
	var out ListResponse
	if err := c.Conn.Post(ctx, "/accounts/List", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Info(ctx context.Context, h http.Header) (*AppUser, error) {
	var out AppUser
	if err := c.Conn.Post(ctx, "/manage/Info", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, in *UpdateRequest, h http.Header) (*AppUser, error) {
	var out AppUser
	if err := c.Conn.Post(ctx, "/manage/Update", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, in *ChangePasswordRequest, h http.Header) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.Conn.Post(ctx, "/manage/ChangePassword", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTenants(ctx context.Context, h http.Header) (*TenantsResponse, error) {
	var out TenantsResponse
	if err := c.Conn.Post(ctx, "/manage/GetTenants", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RolesList(ctx context.Context, h http.Header) (*UserRolesResponse, error) {
	var out UserRolesResponse
	if err := c.Conn.Post(ctx, "/roles/RolesList", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PrivilegesList(ctx context.Context, h http.Header) (*PrivilegesResponse, error) {
	var out PrivilegesResponse
	if err := c.Conn.Post(ctx, "/roles/PrivilegesList", nil, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignUserRoles(ctx context.Context, in *UserRoleRequest, h http.Header) (*UserRolesResponse, error) {
	var out UserRolesResponse
	if err := c.Conn.Post(ctx, "/roles/AssignUserRoles", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveUserRoles(ctx context.Context, in *UserRoleRequest, h http.Header) (*UserRolesResponse, error) {
	var out UserRolesResponse
	if err := c.Conn.Post(ctx, "/roles/RemoveUserRoles", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserRoles(ctx context.Context, in *UserRolesRequest, h http.Header) (*UserRolesResponse, error) {
	var out UserRolesResponse
	if err := c.Conn.Post(ctx, "/roles/GetUserRoles", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUsersRoles(ctx context.Context, in *UsersRolesRequest, h http.Header) (*UsersRolesResponse, error) {
	var out UsersRolesResponse
	if err := c.Conn.Post(ctx, "/roles/GetUsersRoles", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRoleUsers(ctx context.Context, in *RoleRequest, h http.Header) (*RoleUsersResponse, error) {
	var out RoleUsersResponse
	if err := c.Conn.Post(ctx, "/roles/GetRoleUsers", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RoleCreate(ctx context.Context, in *RoleCreateRequest, h http.Header) (*Role, error) {
	var out Role
	if err := c.Conn.Post(ctx, "/roles/RoleCreate", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RoleEdit(ctx context.Context, in *Role, h http.Header) (*Role, error) {
	var out Role
	if err := c.Conn.Post(ctx, "/roles/RoleEdit", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RoleRemove(ctx context.Context, in *RoleRequest, h http.Header) (*Role, error) {
	var out Role
	if err := c.Conn.Post(ctx, "/roles/RoleRemove", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RoleInfo(ctx context.Context, in *RoleRequest, h http.Header) (*Role, error) {
	var out Role
	if err := c.Conn.Post(ctx, "/roles/RoleInfo", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AttachUser(ctx context.Context, in *AppUserID, h http.Header) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.Conn.Post(ctx, "/users/AttachUser", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DetachUser(ctx context.Context, in *AppUserID, h http.Header) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.Conn.Post(ctx, "/users/DetachUser", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FindUserByName(ctx context.Context, in *FindUserByNameRequest, h http.Header) (*AppUser, error) {
	var out AppUser
	if err := c.Conn.Post(ctx, "/users/FindUserByName", in, &out, h); err != nil {
		return nil, err
	}
	return &out, nil
}
