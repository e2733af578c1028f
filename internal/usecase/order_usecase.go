package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 配送料は全国一律
var deliveryCharge = decimal.NewFromInt(50)

// codの前払いはtotalの20%
var prepaymentRate = decimal.NewFromFloat(0.20)

const historyLimit = 100

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type PlaceOrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	AddressID     int64
	PaymentMethod string
	Items         []PlaceOrderItemInput
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID               int64             `json:"id"`
	CustomerID       int64             `json:"customer_id"`
	SellerID         int64             `json:"seller_id"`
	Status           string            `json:"status"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	DeliveryCharges  decimal.Decimal   `json:"delivery_charges"`
	Total            decimal.Decimal   `json:"total"`
	PaymentMethod    string            `json:"payment_method"`
	PaymentStatus    string            `json:"payment_status"`
	PrepaymentAmount *decimal.Decimal  `json:"prepayment_amount"`
	SellerResponse   string            `json:"seller_response,omitempty"`
	BuyerResponse    string            `json:"buyer_response,omitempty"`
	RejectReason     string            `json:"reject_reason,omitempty"`
	ContactAttempts  int               `json:"contact_attempts"`
	CreatedAt        time.Time         `json:"created_at"`
	Items            []OrderItemOutput `json:"items"`
}

type HistoryRowOutput struct {
	Status      string    `json:"status"`
	ActorUserID *int64    `json:"actor_user_id"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaceOrder は注文を作成する。
// 明細スナップショット・金額計算・在庫減算・初回履歴行まで1トランザクション。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, customerID int64, in PlaceOrderInput) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}

	method := model.PaymentMethod(in.PaymentMethod)
	if method != model.PaymentMethodOnline && method != model.PaymentMethodCOD {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "items empty")
	}
	if len(in.Items) > 50 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "too many items")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//address_idの存在確認＋所有チェック
		addr, err := r.Addresses().FindByID(ctx, in.AddressID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他人の住所なら403
		if addr.UserID != customerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		//商品確認＋在庫減算＋スナップショット
		var sellerID int64
		orderItems := make([]model.OrderItem, 0, len(in.Items))
		subtotal := decimal.Zero

		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}

			//注文は1販売者につき1件
			if sellerID == 0 {
				sellerID = p.SellerID
			} else if sellerID != p.SellerID {
				return NewHTTPError(http.StatusBadRequest, "items must belong to a single seller")
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           it.ProductID,
				ProductNameSnapshot: p.Name,
				UnitSnapshot:        p.Unit,
				UnitPriceSnapshot:   p.Price,
				Quantity:            it.Quantity,
			})

			subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
		}

		subtotal = subtotal.Round(2)
		total := subtotal.Add(deliveryCharge).Round(2)

		//codだけ前払い額が入る
		var prepayment *decimal.Decimal
		paymentStatus := model.PaymentStatusPending
		if method == model.PaymentMethodCOD {
			p := total.Mul(prepaymentRate).Round(2)
			prepayment = &p
			paymentStatus = model.PaymentStatusPartialPending
		}

		order := model.Order{
			CustomerID:       customerID,
			SellerID:         sellerID,
			Status:           model.OrderStatusPendingVerification,
			Subtotal:         subtotal,
			DeliveryCharges:  deliveryCharge,
			Total:            total,
			PaymentMethod:    method,
			PaymentStatus:    paymentStatus,
			PrepaymentAmount: prepayment,

			ShipName:    addr.Name,
			ShipPhone:   addr.Phone,
			ShipLine1:   addr.Line1,
			ShipLine2:   addr.Line2,
			ShipCity:    addr.City,
			ShipState:   addr.State,
			ShipPincode: addr.Pincode,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//作成も履歴に1行残す（actor=注文した顧客）
		actorID := customerID
		if err := r.OrderHistory().Append(ctx, model.OrderStateHistory{
			OrderID:     orderID,
			Status:      model.OrderStatusPendingVerification,
			ActorUserID: &actorID,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64) ([]OrderOutput, error) {
	if customerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByCustomerID(ctx, customerID, 1, 50)
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

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOwnOrder(ctx, r, orderID, customerID)
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

// GetMyOrderHistory は自分の注文の遷移履歴（新しい順）。
func (u *OrderUsecase) GetMyOrderHistory(ctx context.Context, customerID int64, orderID int64) ([]HistoryRowOutput, error) {
	if customerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var outs []HistoryRowOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findOwnOrder(ctx, r, orderID, customerID); err != nil {
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

func (u *OrderUsecase) ListMyOrderPayments(ctx context.Context, customerID int64, orderID int64) ([]model.Payment, error) {
	if customerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var rows []model.Payment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findOwnOrder(ctx, r, orderID, customerID); err != nil {
			return err
		}

		var err error
		rows, err = r.Payments().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompleteOrder は配達済みの注文を顧客が完了にする。
func (u *OrderUsecase) CompleteOrder(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := updateOrderStatusTx(ctx, r, orderID, transitionRequest{
			ActorUserID: customerID,
			ActorRole:   model.RoleCustomer,
			Target:      model.OrderStatusCompleted,
		}, func(o model.Order) error {
			//他人の注文は「存在しない扱い」にする
			if o.CustomerID != customerID {
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

// 顧客の所有する注文を取得。他人の注文は404扱い。
func findOwnOrder(ctx context.Context, r repo.TxRepos, orderID int64, customerID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.CustomerID != customerID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Unit:      it.UnitSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		SellerID:         o.SellerID,
		Status:           string(o.Status),
		Subtotal:         o.Subtotal,
		DeliveryCharges:  o.DeliveryCharges,
		Total:            o.Total,
		PaymentMethod:    string(o.PaymentMethod),
		PaymentStatus:    string(o.PaymentStatus),
		PrepaymentAmount: o.PrepaymentAmount,
		SellerResponse:   o.SellerResponse,
		BuyerResponse:    o.BuyerResponse,
		RejectReason:     o.RejectReason,
		ContactAttempts:  o.ContactAttempts,
		CreatedAt:        o.CreatedAt,
		Items:            outItems,
	}
}

func toHistoryOutputs(rows []model.OrderStateHistory) []HistoryRowOutput {
	outs := make([]HistoryRowOutput, 0, len(rows))
	for _, h := range rows {
		outs = append(outs, HistoryRowOutput{
			Status:      string(h.Status),
			ActorUserID: h.ActorUserID,
			Note:        h.Note,
			CreatedAt:   h.CreatedAt,
		})
	}
	return outs
}
