package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AddressUsecase struct {
	addressRepo repo.AddressRepository
}

func NewAddressUsecase(addressRepo repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addressRepo: addressRepo}
}

type UpsertAddressInput struct {
	Name      string
	Phone     string
	Line1     string
	Line2     string
	City      string
	State     string
	Pincode   string
	IsDefault bool
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in UpsertAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressInput(in); err != nil {
		return model.Address{}, err
	}

	a := model.Address{
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Line1:     strings.TrimSpace(in.Line1),
		Line2:     strings.TrimSpace(in.Line2),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		Pincode:   strings.TrimSpace(in.Pincode),
		IsDefault: in.IsDefault,
	}

	id, err := u.addressRepo.Create(ctx, a)
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	a.ID = id
	return a, nil
}

func (u *AddressUsecase) ListMine(ctx context.Context, userID int64) ([]model.Address, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in UpsertAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateAddressInput(in); err != nil {
		return model.Address{}, err
	}

	a, err := u.mustOwnAddress(ctx, userID, addressID)
	if err != nil {
		return model.Address{}, err
	}

	a.Name = strings.TrimSpace(in.Name)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Line1 = strings.TrimSpace(in.Line1)
	a.Line2 = strings.TrimSpace(in.Line2)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.Pincode = strings.TrimSpace(in.Pincode)
	a.IsDefault = in.IsDefault

	if err := u.addressRepo.Update(ctx, &a); err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.mustOwnAddress(ctx, userID, addressID); err != nil {
		return err
	}

	if err := u.addressRepo.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) mustOwnAddress(ctx context.Context, userID int64, addressID int64) (model.Address, error) {
	a, err := u.addressRepo.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の住所は「存在しない扱い」
	if a.UserID != userID {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return a, nil
}

func validateAddressInput(in UpsertAddressInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if strings.TrimSpace(in.Line1) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid line1")
	}
	if strings.TrimSpace(in.City) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid city")
	}
	if strings.TrimSpace(in.State) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid state")
	}
	if strings.TrimSpace(in.Pincode) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid pincode")
	}
	return nil
}
