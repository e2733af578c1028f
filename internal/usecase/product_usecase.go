package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	sellerRepo  repo.SellerRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, sellerRepo repo.SellerRepository) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type UpsertProductInput struct {
	Name        string
	Description string
	Category    string
	Unit        string
	Price       decimal.Decimal
	Stock       int64
	IsActive    bool
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid q")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListFilter{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          in.Q,
		Category:   in.Category,
		OnlyActive: true,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ProductUsecase) GetPublicProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//非公開は「存在しない扱い」
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// 出品者の自分の商品一覧（非公開含む）
func (u *ProductUsecase) ListMyProducts(ctx context.Context, sellerUserID int64, page int, limit int) (ProductListOutput, error) {
	if sellerUserID <= 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	seller, err := u.mustSeller(ctx, sellerUserID)
	if err != nil {
		return ProductListOutput{}, err
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListFilter{
		Page:     page,
		Limit:    limit,
		SellerID: &seller.ID,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, sellerUserID int64, in UpsertProductInput) (model.Product, error) {
	if sellerUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	seller, err := u.mustSeller(ctx, sellerUserID)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		SellerID:    seller.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Unit:        strings.TrimSpace(in.Unit),
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	}

	id, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	p.ID = id
	return p, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, sellerUserID int64, productID int64, in UpsertProductInput) (model.Product, error) {
	if sellerUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	p, err := u.mustOwnProduct(ctx, sellerUserID, productID)
	if err != nil {
		return model.Product{}, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Category = strings.TrimSpace(in.Category)
	p.Unit = strings.TrimSpace(in.Unit)
	p.Price = in.Price.Round(2)
	p.Stock = in.Stock
	p.IsActive = in.IsActive

	if err := u.productRepo.Update(ctx, &p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, sellerUserID int64, productID int64) error {
	if sellerUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.mustOwnProduct(ctx, sellerUserID, productID); err != nil {
		return err
	}

	if err := u.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) mustSeller(ctx context.Context, userID int64) (model.Seller, error) {
	s, err := u.sellerRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Seller{}, NewHTTPError(http.StatusForbidden, "seller profile required")
	}
	if err != nil {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *ProductUsecase) mustOwnProduct(ctx context.Context, sellerUserID int64, productID int64) (model.Product, error) {
	seller, err := u.mustSeller(ctx, sellerUserID)
	if err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の商品は「存在しない扱い」
	if p.SellerID != seller.ID {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func validateProductInput(in UpsertProductInput) error {
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid unit")
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	return nil
}
