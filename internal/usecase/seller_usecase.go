package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SellerUsecase struct {
	sellerRepo repo.SellerRepository
}

func NewSellerUsecase(sellerRepo repo.SellerRepository) *SellerUsecase {
	return &SellerUsecase{sellerRepo: sellerRepo}
}

type UpsertSellerProfileInput struct {
	BusinessName string
	Category     string
	Phone        string
	City         string
	Pincode      string
}

// CreateProfile は出品者プロフィールを登録する（1ユーザー1件）。
func (u *SellerUsecase) CreateProfile(ctx context.Context, userID int64, in UpsertSellerProfileInput) (model.Seller, error) {
	if userID <= 0 {
		return model.Seller{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateSellerProfile(in); err != nil {
		return model.Seller{}, err
	}

	//二重登録は409
	if _, err := u.sellerRepo.FindByUserID(ctx, userID); err == nil {
		return model.Seller{}, NewHTTPError(http.StatusConflict, "seller profile already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s := model.Seller{
		UserID:       userID,
		BusinessName: strings.TrimSpace(in.BusinessName),
		Category:     strings.TrimSpace(in.Category),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		Pincode:      strings.TrimSpace(in.Pincode),
	}

	id, err := u.sellerRepo.Create(ctx, s)
	if err != nil {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	s.ID = id
	return s, nil
}

func (u *SellerUsecase) GetMyProfile(ctx context.Context, userID int64) (model.Seller, error) {
	if userID <= 0 {
		return model.Seller{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.sellerRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Seller{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *SellerUsecase) UpdateProfile(ctx context.Context, userID int64, in UpsertSellerProfileInput) (model.Seller, error) {
	if userID <= 0 {
		return model.Seller{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateSellerProfile(in); err != nil {
		return model.Seller{}, err
	}

	s, err := u.sellerRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Seller{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s.BusinessName = strings.TrimSpace(in.BusinessName)
	s.Category = strings.TrimSpace(in.Category)
	s.Phone = strings.TrimSpace(in.Phone)
	s.City = strings.TrimSpace(in.City)
	s.Pincode = strings.TrimSpace(in.Pincode)

	if err := u.sellerRepo.Update(ctx, &s); err != nil {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func validateSellerProfile(in UpsertSellerProfileInput) error {
	if strings.TrimSpace(in.BusinessName) == "" || len(in.BusinessName) > 255 {
		return NewHTTPError(http.StatusBadRequest, "invalid business_name")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if strings.TrimSpace(in.City) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid city")
	}
	return nil
}
