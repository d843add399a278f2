package httpserver

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
)

type Deps struct {
	Accounts *AccountsHTTP
	Manage   *ManageHTTP
	Roles    *RolesHTTP
	Users    *UsersHTTP
	Auth     *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	accounts := e.Group("/accounts")
	accounts.POST("/Login", d.Accounts.Login)
	accounts.POST("/Register", d.Accounts.Register)
	accounts.POST("/Logout", d.Accounts.Logout, d.Auth.RequireToken)
	accounts.POST("/List", d.Accounts.List, d.Auth.RequireAccess, auth.RequireRoles("Admin"))

	manage := e.Group("/manage", d.Auth.RequireAccess, auth.RequireRoles("User", "Admin"))
	manage.POST("/Info", d.Manage.Info)
	manage.POST("/Update", d.Manage.Update)
	manage.POST("/ChangePassword", d.Manage.ChangePassword)
	manage.POST("/GetTenants", d.Manage.GetTenants)

	roles := e.Group("/roles", d.Auth.RequireAccess, auth.RequireRoles("Admin"))
	roles.POST("/RolesList", d.Roles.RolesList)
	roles.POST("/PrivilegesList", d.Roles.PrivilegesList)
	roles.POST("/AssignUserRoles", d.Roles.AssignUserRoles)
	roles.POST("/RemoveUserRoles", d.Roles.RemoveUserRoles)
	roles.POST("/GetUserRoles", d.Roles.GetUserRoles)
	roles.POST("/GetUsersRoles", d.Roles.GetUsersRoles)
	roles.POST("/GetRoleUsers", d.Roles.GetRoleUsers)
	roles.POST("/RoleCreate", d.Roles.RoleCreate)
	roles.POST("/RoleEdit", d.Roles.RoleEdit)
	roles.POST("/RoleRemove", d.Roles.RoleRemove)
	roles.POST("/RoleInfo", d.Roles.RoleInfo)

	users := e.Group("/users", d.Auth.RequireAccess, auth.RequireRoles("Admin"))
	users.POST("/AttachUser", d.Users.AttachUser)
	users.POST("/DetachUser", d.Users.DetachUser)
	users.POST("/FindUserByName", d.Users.FindUserByName)
}
