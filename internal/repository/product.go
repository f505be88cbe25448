package repository

import (
	"context"

	"fftopup/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindAll(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

// DefaultProducts are the Free Fire diamond packages offered out of the box.
func DefaultProducts() []model.Product {
	return []model.Product{
		{ID: "ff_5", Diamonds: 5, Price: 1000},
		{ID: "ff_12", Diamonds: 12, Price: 2000},
		{ID: "ff_50", Diamonds: 50, Price: 8000},
		{ID: "ff_70", Diamonds: 70, Price: 10000},
		{ID: "ff_100", Diamonds: 100, Price: 15000},
		{ID: "ff_140", Diamonds: 140, Price: 20000},
		{ID: "ff_355", Diamonds: 355, Price: 50000},
		{ID: "ff_720", Diamonds: 720, Price: 100000},
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := DefaultProducts()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindAll(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("price ASC").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
