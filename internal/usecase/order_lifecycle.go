package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 注文ライフサイクルの中核。
// 「遷移の検証 → 注文更新 → 履歴追記」を必ず同じトランザクションで行う。
// どこかで失敗したら全部ロールバックされるので、
// 履歴の無いステータス変更も、ステータス変更の無い履歴行も観測できない。

type transitionRequest struct {
	ActorUserID int64
	ActorRole   model.Role
	Target      model.OrderStatus

	//履歴のnoteになる（reject > seller > buyer の優先）
	RejectReason   string
	SellerResponse string
	BuyerResponse  string
}

// ステータスごとに、そこへ進められる役割。
// pending_verificationは注文作成（顧客）だけなのでここには無い。
var transitionRoleAllow = map[model.OrderStatus][]model.Role{
	model.OrderStatusSellerContacted: {model.RoleAdmin},
	model.OrderStatusSellerAccepted:  {model.RoleAdmin},
	model.OrderStatusSellerRejected:  {model.RoleAdmin},
	model.OrderStatusBuyerContacted:  {model.RoleAdmin},
	model.OrderStatusBuyerConfirmed:  {model.RoleAdmin},
	model.OrderStatusBuyerRejected:   {model.RoleAdmin},
	model.OrderStatusConfirmed:       {model.RoleAdmin},
	model.OrderStatusRejected:        {model.RoleAdmin},
	model.OrderStatusOutForDelivery:  {model.RoleSeller},
	model.OrderStatusDelivered:       {model.RoleSeller},
	model.OrderStatusCompleted:       {model.RoleAdmin, model.RoleSeller, model.RoleCustomer},
}

func roleMaySet(role model.Role, target model.OrderStatus) bool {
	for _, r := range transitionRoleAllow[target] {
		if r == role {
			return true
		}
	}
	return false
}

// validateAndApplyTransition は o をメモリ上で遷移させる。DBは触らない。
// 同じステータスへの「遷移」はno-op（changed=false, 履歴も増やさない）。
func validateAndApplyTransition(o *model.Order, req transitionRequest) (bool, error) {
	if !req.Target.Valid() {
		return false, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	// すでに同じなら何もしない
	if o.Status == req.Target {
		return false, nil
	}

	//遷移表で到達できるか
	if !o.Status.CanTransitionTo(req.Target) {
		return false, NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("cannot transition from %s to %s", o.Status, req.Target))
	}

	//この役割が設定してよいステータスか
	if !roleMaySet(req.ActorRole, req.Target) {
		return false, NewHTTPError(http.StatusForbidden,
			fmt.Sprintf("role %s cannot set status %s", req.ActorRole, req.Target))
	}

	if req.RejectReason != "" {
		o.RejectReason = req.RejectReason
	}
	if req.SellerResponse != "" {
		o.SellerResponse = req.SellerResponse
	}
	if req.BuyerResponse != "" {
		o.BuyerResponse = req.BuyerResponse
	}

	//検証して販売者へ回した管理者を記録
	if req.Target == model.OrderStatusSellerContacted {
		adminID := req.ActorUserID
		o.VerifiedByAdminID = &adminID
	}

	o.Status = req.Target
	return true, nil
}

// 履歴行のnote。今回の更新で渡された値から優先順で選ぶ。
func historyNote(req transitionRequest) *string {
	switch {
	case req.RejectReason != "":
		n := req.RejectReason
		return &n
	case req.SellerResponse != "":
		n := req.SellerResponse
		return &n
	case req.BuyerResponse != "":
		n := req.BuyerResponse
		return &n
	}
	return nil
}

// rejectedへ落ちた注文の在庫戻し。作成時に引いた分を返す。
func restoreOrderStock(ctx context.Context, r repo.TxRepos, orderID int64) error {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	for _, it := range items {
		err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity)
		//商品行が消えていても拒否遷移は止めない
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// updateOrderStatusTx は遷移1件をトランザクション内で適用する。
// guard は行ロック取得後・遷移前に所有チェック等を行う（nil可）。
func updateOrderStatusTx(
	ctx context.Context,
	r repo.TxRepos,
	orderID int64,
	req transitionRequest,
	guard func(model.Order) error,
) (model.Order, error) {
	//行ロック。同じ注文の同時遷移はここで直列になる。
	o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if guard != nil {
		if err := guard(o); err != nil {
			return model.Order{}, err
		}
	}

	changed, err := validateAndApplyTransition(&o, req)
	if err != nil {
		return model.Order{}, err
	}
	if !changed {
		return o, nil
	}

	if o.Status == model.OrderStatusRejected {
		if err := restoreOrderStock(ctx, r, o.ID); err != nil {
			return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if err := r.Orders().Save(ctx, &o); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//ステータスが実際に変わったときだけ1行追記
	actorID := req.ActorUserID
	if err := r.OrderHistory().Append(ctx, model.OrderStateHistory{
		OrderID:     o.ID,
		Status:      o.Status,
		ActorUserID: &actorID,
		Note:        historyNote(req),
	}); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return o, nil
}
