// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
)

// ErrNotFound is returned when a product or promotion does not exist or is
// inactive.
var ErrNotFound = errors.New("product not found")

// Service handles catalog reads. The storefront only browses the catalog;
// product management lives elsewhere.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents catalog list query parameters
type ListRequest struct {
	Page       int   `form:"page,default=1"`
	Limit      int   `form:"limit,default=20"`
	CategoryID *uint `form:"category_id"`
}

// ListResponse represents a page of products
type ListResponse struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int64     `json:"total"`
}

// List returns a page of active products
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Product{}).Where("is_active = ?", true)
	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("Category").
		Order("name asc").
		Offset(offset).Limit(req.Limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ListResponse{
		Products: products,
		Page:     req.Page,
		Limit:    req.Limit,
		Total:    total,
	}, nil
}

// Get returns an active product by id
func (s *Service) Get(id uint) (*Product, error) {
	var prod Product
	err := s.db.Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&prod).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &prod, nil
}

// GetBySlug returns an active product by slug
func (s *Service) GetBySlug(slug string) (*Product, error) {
	var prod Product
	err := s.db.Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&prod).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &prod, nil
}

// ListPromotions returns promotions live at the current time
func (s *Service) ListPromotions() ([]Promotion, error) {
	now := time.Now().UTC()

	var promos []Promotion
	err := s.db.
		Where("is_active = ? AND starts_at <= ? AND ends_at > ?", true, now, now).
		Order("starts_at desc").
		Find(&promos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promos, nil
}

// GetPromotion returns a live promotion by id
func (s *Service) GetPromotion(id uint) (*Promotion, error) {
	var promo Promotion
	err := s.db.Where("id = ?", id).First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	if !promo.IsRunning(time.Now().UTC()) {
		return nil, ErrNotFound
	}
	return &promo, nil
}
