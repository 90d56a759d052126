package repository

import (
	"github.com/dimsumluna/ordering-backend/models"
	"gorm.io/gorm"
)

// OrderFilter narrows List results. Zero values mean "any".
type OrderFilter struct {
	CustomerID uint
	Status     string
}

// OrderRepository is the row-level access contract for orders. Each
// call is atomic per record; no caller ever rewrites the whole
// collection.
type OrderRepository interface {
	Get(id uint) (*models.Order, error)
	List(filter OrderFilter) ([]models.Order, error)
	Upsert(tx *gorm.DB, order *models.Order) error
	Delete(tx *gorm.DB, id uint) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Get(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	query := r.db.Preload("Items").Order("created_at DESC")
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) Upsert(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(order).Error
}

func (r *gormOrderRepository) Delete(tx *gorm.DB, id uint) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Order{}, id).Error
}
