// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a customer account. Trade customers carry company details
// used on invoices and for on-account payment.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Phone       string     `gorm:"size:20" json:"phone"`
	CompanyName string     `gorm:"size:255" json:"company_name,omitempty"`
	SIRET       string     `gorm:"size:14" json:"siret,omitempty"`
	VATNumber   string     `gorm:"size:20" json:"vat_number,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"addresses,omitempty"`
}

// Address is a saved delivery or billing address. Building-site deliveries
// often go to a different address per order, hence the free-form label.
type Address struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Label        string    `gorm:"size:100" json:"label,omitempty"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	Company      string    `gorm:"size:100" json:"company"`
	AddressLine1 string    `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2 string    `gorm:"size:255" json:"address_line2"`
	City         string    `gorm:"size:100;not null" json:"city"`
	PostalCode   string    `gorm:"size:20;not null" json:"postal_code"`
	Country      string    `gorm:"size:2;not null;default:'FR'" json:"country"`
	Phone        string    `gorm:"size:20" json:"phone"`
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Address
func (Address) TableName() string {
	return "addresses"
}

// BeforeCreate normalizes the email before insert
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns the company name, the full name, or the email, in
// that order of preference.
func (u *User) GetDisplayName() string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	if name := u.GetFullName(); name != "" {
		return name
	}
	return u.Email
}
