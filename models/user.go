package models

import (
	"time"

	"github.com/eylemk/santral/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Back-office roles
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleAgent      = "agent"
)

// Permission names gating routes and screens
const (
	PermTicketsCreate = "tickets.create"
	PermTicketsView   = "tickets.view"
	PermTicketsUpdate = "tickets.update"
	PermCustomers     = "customers.manage"
	PermUsersManage   = "users.manage"
	PermShiftsManage  = "shifts.manage"
	PermMessagesSend  = "messages.send"
	PermReportsView   = "reports.view"
)

// rolePermissions maps each role to the permissions it grants. Admin implies
// everything; the table is only consulted for the other roles.
var rolePermissions = map[string][]string{
	RoleSupervisor: {
		PermTicketsCreate, PermTicketsView, PermTicketsUpdate,
		PermCustomers, PermShiftsManage, PermMessagesSend, PermReportsView,
	},
	RoleAgent: {
		PermTicketsCreate, PermTicketsView, PermTicketsUpdate,
		PermMessagesSend,
	},
}

// RoleHasPermission reports whether the given role grants the permission
func RoleHasPermission(role, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// User represents a back-office operator (call center agent, supervisor, or admin)
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(32);not null;default:'agent';index" json:"role"`
	GroupID      *uint     `gorm:"index" json:"group_id,omitempty"`
	Mobile       *string   `gorm:"type:varchar(32)" json:"mobile,omitempty"`
	IsActive     *bool     `gorm:"default:true;index" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Group *TicketCategory `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
}

func (User) TableName() string { return "users" }

// BeforeCreate ensures UUID and timestamps are set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// HasPermission reports whether the user's role grants the permission
func (u *User) HasPermission(permission string) bool {
	return RoleHasPermission(u.Role, permission)
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Username *string `json:"username,omitempty"`
	Role     *string `json:"role,omitempty"`
	GroupID  *uint   `json:"group_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
