package identityclient

// Wire types of the identity service. The gateway decodes untyped
// request bodies into the *Request types, so required fields carry
// validate tags.

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
}

type TenantInfo struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type LoginInfo struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	IsAdmin      bool        `json:"isAdmin"`
	Tenant       *TenantInfo `json:"tenant,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type AppUser struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
}

type ListResponse struct {
	AppUsers []AppUser `json:"appUsers"`
}

// UpdateRequest mutates the fields that are present; absent fields are
// left untouched.
type UpdateRequest struct {
	ID        uint    `json:"id"`
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Company   *string `json:"company,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type Tenant struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TenantsResponse struct {
	Tenants []Tenant `json:"tenants"`
}

// Privilege is an atomic system role inside a micro role.
type Privilege struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Role struct {
	ID         uint        `json:"id"`
	UserID     uint        `json:"userId"`
	Name       string      `json:"name"`
	Privileges []Privilege `json:"privileges,omitempty"`
}

type RoleCreateRequest struct {
	Name       string      `json:"name" validate:"required"`
	Privileges []Privilege `json:"privileges" validate:"required"`
}

type RoleRequest struct {
	RoleID uint `json:"roleId" validate:"required"`
}

type UserRolesResponse struct {
	UserID uint   `json:"userId"`
	Roles  []Role `json:"roles"`
}

type UsersRolesResponse struct {
	UserRoles []UserRolesResponse `json:"userRoles"`
}

type UserRoleRequest struct {
	UserID  uint   `json:"userId" validate:"required"`
	RoleIDs []uint `json:"roleIds"`
}

type UserRolesRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

type UsersRolesRequest struct {
	UserIDs []uint `json:"userIds" validate:"required"`
}

type RoleUsersResponse struct {
	Users []uint `json:"users"`
}

type PrivilegesResponse struct {
	Privileges []Privilege `json:"privileges"`
}

type AppUserID struct {
	ID uint `json:"id" validate:"required"`
}

type FindUserByNameRequest struct {
	Name string `json:"name" validate:"required"`
}
