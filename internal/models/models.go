package models

import (
	"time"
)

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Title    string    `gorm:"size:50;not null"             json:"title"`
	Slug     string    `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Products []Product `gorm:"constraint:OnDelete:CASCADE"  json:"-"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"size:50;not null"         json:"title"`
	CategoryID  uint   `gorm:"index;not null"           json:"category_id"`
	Price       int64  `gorm:"not null"                 json:"price"`
	Description string `gorm:"size:100;not null"        json:"description"`
	Image       string `json:"image,omitempty"`
}

type Permission struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"uniqueIndex;not null"     json:"code"`
}

type User struct {
	ID           uint         `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string       `gorm:"unique;not null"            json:"username"`
	PasswordHash string       `gorm:"not null"                   json:"-"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Role         string       `gorm:"not null;default:user"      json:"role"`
	Permissions  []Permission `gorm:"many2many:user_permissions" json:"permissions,omitempty"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// CartItem holds one pending purchase per (user, product) pair, adding the
// same product again bumps Count instead of creating a second row.
type CartItem struct {
	ID        uint    `gorm:"primaryKey"                                 json:"id"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Count     uint    `gorm:"default:1;check:count>0"                    json:"count"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
}

// Suggested order statuses. The column stays free text, status transitions
// are not validated.
const (
	OrderStatusNew        = "New"
	OrderStatusProcessing = "Processing"
	OrderStatusPaid       = "Paid"
	OrderStatusShipped    = "Shipped"
	OrderStatusCancelled  = "Cancelled"
)

type Order struct {
	ID        uint        `gorm:"primaryKey"                  json:"id"`
	UserID    uint        `gorm:"index;not null"              json:"user_id"`
	CreatedAt time.Time   `gorm:"not null"                    json:"created_at"`
	Status    string      `gorm:"not null"                    json:"status"`
	Total     int64       `gorm:"not null"                    json:"total"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem.Price is the unit price copied from the product at order time.
// It never changes afterwards, even if the product is repriced.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"              json:"id"`
	OrderID   uint    `gorm:"index;not null"          json:"order_id"`
	ProductID uint    `gorm:"not null"                json:"product_id"`
	Count     uint    `gorm:"default:1;check:count>0" json:"count"`
	Price     int64   `gorm:"not null"                json:"price"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
}
