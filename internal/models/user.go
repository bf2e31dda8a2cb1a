package models

import (
	"time"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleWorker   = "worker"
	RoleSupport  = "support"
	RoleSystem   = "system"
)

// User is a storefront identity. Most users originate from the Discord bot,
// which resolves them by DiscordID on first contact.
type User struct {
	ID        uint   `gorm:"primarykey"`
	DiscordID string `gorm:"uniqueIndex;size:32"`
	Username  string `gorm:"size:64"`
	Role      string `gorm:"size:16;default:'customer'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
