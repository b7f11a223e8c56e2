// internal/domain/user/address_service.go
package user

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// ErrAddressNotFound marks a missing address or one owned by someone else.
var ErrAddressNotFound = errors.New("address not found")

// AddressService manages a customer's address book
type AddressService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, cfg *config.Config) *AddressService {
	return &AddressService{db: db, config: cfg}
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	Label        string `json:"label"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"is_default"`
}

// ListAddresses returns the user's addresses, default first.
func (s *AddressService) ListAddresses(userID uint) ([]Address, error) {
	var addresses []Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress loads one of the user's addresses. Someone else's address reads
// as not found.
func (s *AddressService) GetAddress(userID, addressID uint) (*Address, error) {
	var address Address
	err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	return &address, nil
}

// CreateAddress adds an address to the user's book.
func (s *AddressService) CreateAddress(userID uint, req *CreateAddressRequest) (*Address, error) {
	address := Address{
		UserID:       userID,
		Label:        req.Label,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		IsDefault:    req.IsDefault,
	}
	if address.Country == "" {
		address.Country = "FR"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := s.unsetDefault(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &address, nil
}

// UpdateAddress replaces the address fields.
func (s *AddressService) UpdateAddress(userID, addressID uint, req *CreateAddressRequest) (*Address, error) {
	address, err := s.GetAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = req.Label
	address.FirstName = req.FirstName
	address.LastName = req.LastName
	address.Company = req.Company
	address.AddressLine1 = req.AddressLine1
	address.AddressLine2 = req.AddressLine2
	address.City = req.City
	address.PostalCode = req.PostalCode
	address.Phone = req.Phone
	if req.Country != "" {
		address.Country = req.Country
	}
	address.IsDefault = req.IsDefault

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := s.unsetDefault(tx, userID); err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return address, nil
}

// DeleteAddress removes an address from the book.
func (s *AddressService) DeleteAddress(userID, addressID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// GetDefaultAddress returns the default address, or the most recent one when
// none is marked default.
func (s *AddressService) GetDefaultAddress(userID uint) (*Address, error) {
	var address Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load default address: %w", err)
	}
	return &address, nil
}

func (s *AddressService) unsetDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&Address{}).Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
