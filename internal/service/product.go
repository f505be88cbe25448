package service

import (
	"context"
	"fmt"

	"fftopup/internal/model"
	"fftopup/internal/repository"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}
