package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SellerOrderUsecase struct {
	tx repo.TransactionManager
}

func NewSellerOrderUsecase(tx repo.TransactionManager) *SellerOrderUsecase {
	return &SellerOrderUsecase{tx: tx}
}

type SellerUpdateOrderStatusInput struct {
	Status string
}

// ListOrders は自分あての注文だけ返す。
func (u *SellerOrderUsecase) ListOrders(ctx context.Context, sellerUserID int64, page int, limit int) ([]OrderOutput, error) {
	if sellerUserID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		seller, err := findSellerProfile(ctx, r, sellerUserID)
		if err != nil {
			return err
		}

		orders, _, err := r.Orders().ListBySellerID(ctx, seller.ID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *SellerOrderUsecase) GetOrderDetail(ctx context.Context, sellerUserID int64, orderID int64) (OrderOutput, error) {
	if sellerUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		seller, err := findSellerProfile(ctx, r, sellerUserID)
		if err != nil {
			return err
		}

		o, err := findSellersOrder(ctx, r, orderID, seller.ID)
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *SellerOrderUsecase) GetOrderHistory(ctx context.Context, sellerUserID int64, orderID int64) ([]HistoryRowOutput, error) {
	if sellerUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var outs []HistoryRowOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		seller, err := findSellerProfile(ctx, r, sellerUserID)
		if err != nil {
			return err
		}
		if _, err := findSellersOrder(ctx, r, orderID, seller.ID); err != nil {
			return err
		}

		rows, err := r.OrderHistory().ListByOrderID(ctx, orderID, historyLimit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = toHistoryOutputs(rows)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

// UpdateStatus は配送系の遷移（out_for_delivery / delivered / completed）。
func (u *SellerOrderUsecase) UpdateStatus(ctx context.Context, sellerUserID int64, orderID int64, in SellerUpdateOrderStatusInput) (OrderOutput, error) {
	if sellerUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	target := model.OrderStatus(strings.TrimSpace(in.Status))

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		seller, err := findSellerProfile(ctx, r, sellerUserID)
		if err != nil {
			return err
		}

		o, err := updateOrderStatusTx(ctx, r, orderID, transitionRequest{
			ActorUserID: sellerUserID,
			ActorRole:   model.RoleSeller,
			Target:      target,
		}, func(o model.Order) error {
			//他の販売者の注文は「存在しない扱い」
			if o.SellerID != seller.ID {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return nil
		})
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 出品者プロフィールを引く。無ければ403（SELLERロールでも未登録の間は操作不可）。
func findSellerProfile(ctx context.Context, r repo.TxRepos, userID int64) (model.Seller, error) {
	s, err := r.Sellers().FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Seller{}, NewHTTPError(http.StatusForbidden, "seller profile required")
	}
	if err != nil {
		return model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func findSellersOrder(ctx context.Context, r repo.TxRepos, orderID int64, sellerID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.SellerID != sellerID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}
