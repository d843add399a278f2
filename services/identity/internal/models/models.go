package models

import "time"

// Account is a credentialed principal. Accounts are never hard-deleted.
type Account struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`

	// Credential-store bookkeeping.
	EmailConfirmed    bool       `json:"-"`
	AccessFailedCount int        `json:"-"`
	LockoutEnd        *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Role is an atomic system privilege from the seeded catalog.
type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

// AccountRole assigns a system role directly to an account.
type AccountRole struct {
	AccountID uint `gorm:"primaryKey"`
	RoleID    uint `gorm:"primaryKey"`
}

// RefreshToken is the persisted proof that a refresh token was issued.
// Absence of a row means the token was revoked or never existed.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"index;not null"`
	TokenID   string    `gorm:"uniqueIndex;size:36;not null"`
	ValidFrom time.Time `gorm:"not null"`
	ValidTo   time.Time `gorm:"not null"`
}

// MicroRole is a tenant-owned named bundle of system roles.
type MicroRole struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time

	MicroRoleRoles []MicroRoleRole `gorm:"constraint:OnDelete:CASCADE"`
}

// MicroRoleRole links a micro role to one of the base roles it bundles.
type MicroRoleRole struct {
	MicroRoleID uint `gorm:"primaryKey"`
	RoleID      uint `gorm:"primaryKey"`

	Role Role
}

// TenantUser is the membership link from a tenant account to an
// attached account, unique per pair.
type TenantUser struct {
	ID       uint `gorm:"primaryKey;autoIncrement"`
	TenantID uint `gorm:"uniqueIndex:idx_tenant_user;not null"`
	UserID   uint `gorm:"uniqueIndex:idx_tenant_user;not null"`
}

// TenantUserMicroRole grants a micro role to an attached account.
type TenantUserMicroRole struct {
	TenantUserID uint `gorm:"primaryKey"`
	MicroRoleID  uint `gorm:"primaryKey"`

	TenantUser TenantUser
	MicroRole  MicroRole
}

// All lists every identity model for migration.
func All() []any {
	return []any{
		&Account{},
		&Role{},
		&AccountRole{},
		&RefreshToken{},
		&MicroRole{},
		&MicroRoleRole{},
		&TenantUser{},
		&TenantUserMicroRole{},
	}
}
