package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

// PATCH /admin/orders/:id の入力。nilのフィールドは触らない。
type AdminUpdateOrderInput struct {
	Status *string

	SellerResponse *string
	BuyerResponse  *string
	RejectReason   *string

	PaymentStatus *string

	//連絡試行のカウンタを+1
	IncrementContactAttempts bool
}

type RecordPaymentInput struct {
	Kind          string
	Amount        decimal.Decimal
	Status        string
	ProviderTxnID string

	//同時に注文のpayment_statusも変えるとき
	PaymentStatus *string
}

// 注文一覧。ステータス未指定なら審査中の4つに絞られる（repo側）。
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	for _, s := range f.Statuses {
		if !s.Valid() {
			return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// UpdateOrder は部分更新。
// statusが入っていて今の値と違うときだけ状態機械を通り、履歴が1行増える。
func (u *AdminOrderUsecase) UpdateOrder(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if in.PaymentStatus != nil {
		if !model.OrderPaymentStatus(*in.PaymentStatus).Valid() {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_status")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ステータス以外の部分更新
		if in.SellerResponse != nil {
			o.SellerResponse = strings.TrimSpace(*in.SellerResponse)
		}
		if in.BuyerResponse != nil {
			o.BuyerResponse = strings.TrimSpace(*in.BuyerResponse)
		}
		if in.RejectReason != nil {
			o.RejectReason = strings.TrimSpace(*in.RejectReason)
		}
		if in.PaymentStatus != nil {
			o.PaymentStatus = model.OrderPaymentStatus(*in.PaymentStatus)
		}
		if in.IncrementContactAttempts {
			o.ContactAttempts++
		}

		//ステータス遷移（値が実際に変わるときだけ）
		statusChanged := false
		var req transitionRequest
		if in.Status != nil {
			req = transitionRequest{
				ActorUserID:    actorAdminUserID,
				ActorRole:      model.RoleAdmin,
				Target:         model.OrderStatus(strings.TrimSpace(*in.Status)),
				RejectReason:   deref(in.RejectReason),
				SellerResponse: deref(in.SellerResponse),
				BuyerResponse:  deref(in.BuyerResponse),
			}
			statusChanged, err = validateAndApplyTransition(&o, req)
			if err != nil {
				return err
			}
		}

		if statusChanged && o.Status == model.OrderStatusRejected {
			if err := restoreOrderStock(ctx, r, o.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().Save(ctx, &o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ステータスが変わったときだけ履歴1行。同値PATCHでは増えない。
		if statusChanged {
			actorID := actorAdminUserID
			if err := r.OrderHistory().Append(ctx, model.OrderStateHistory{
				OrderID:     o.ID,
				Status:      o.Status,
				ActorUserID: &actorID,
				Note:        historyNote(req),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
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

// GetOrderHistory は任意の注文の履歴（新しい順）。
func (u *AdminOrderUsecase) GetOrderHistory(ctx context.Context, orderID int64) ([]HistoryRowOutput, error) {
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var outs []HistoryRowOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
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

// RecordPayment は入金・前払い・返金の1件を記録する。
// 注文のpayment_statusの変更も同じトランザクションで行う。
func (u *AdminOrderUsecase) RecordPayment(ctx context.Context, actorAdminUserID int64, orderID int64, in RecordPaymentInput) (model.Payment, error) {
	if actorAdminUserID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	kind := model.PaymentKind(strings.TrimSpace(in.Kind))
	switch kind {
	case model.PaymentKindFull, model.PaymentKindPrepayment, model.PaymentKindRefund:
		// OK
	default:
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid kind")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}
	if strings.TrimSpace(in.Status) == "" {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if in.PaymentStatus != nil && !model.OrderPaymentStatus(*in.PaymentStatus).Valid() {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}

	var created model.Payment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p := model.Payment{
			OrderID:       o.ID,
			Kind:          kind,
			Amount:        in.Amount.Round(2),
			Status:        strings.TrimSpace(in.Status),
			ProviderTxnID: strings.TrimSpace(in.ProviderTxnID),
		}
		id, err := r.Payments().Create(ctx, p)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		p.ID = id

		if in.PaymentStatus != nil {
			o.PaymentStatus = model.OrderPaymentStatus(*in.PaymentStatus)
			if err := r.Orders().Save(ctx, &o); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		created = p
		return nil
	})

	if err != nil {
		return model.Payment{}, err
	}
	return created, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
