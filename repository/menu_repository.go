package repository

import (
	"github.com/dimsumluna/ordering-backend/models"
	"gorm.io/gorm"
)

type MenuRepository interface {
	Get(id uint) (*models.MenuItem, error)
	// List returns non-tombstoned items; availableOnly further
	// restricts to items customers may order.
	List(availableOnly bool) ([]models.MenuItem, error)
	Upsert(tx *gorm.DB, item *models.MenuItem) error
	Delete(tx *gorm.DB, id uint) error
}

type gormMenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &gormMenuRepository{db: db}
}

func (r *gormMenuRepository) Get(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.Where("deleted = ?", false).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormMenuRepository) List(availableOnly bool) ([]models.MenuItem, error) {
	query := r.db.Where("deleted = ?", false).Order("id ASC")
	if availableOnly {
		query = query.Where("available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormMenuRepository) Upsert(tx *gorm.DB, item *models.MenuItem) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(item).Error
}

func (r *gormMenuRepository) Delete(tx *gorm.DB, id uint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Delete(&models.MenuItem{}, id).Error
}
