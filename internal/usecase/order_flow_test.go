package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// ステートフルなfake。作成から複数遷移までを1つの注文で通しで回す。
// =====================

type orderRepoFake struct {
	order *model.Order
}

func (f *orderRepoFake) Create(ctx context.Context, order model.Order) (int64, error) {
	o := order
	o.ID = 1
	f.order = &o
	return o.ID, nil
}

func (f *orderRepoFake) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	if f.order == nil || f.order.ID != orderID {
		return model.Order{}, repo.ErrNotFound
	}
	return *f.order, nil
}

func (f *orderRepoFake) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	return f.FindByID(ctx, orderID)
}

func (f *orderRepoFake) Save(ctx context.Context, order *model.Order) error {
	*f.order = *order
	return nil
}

func (f *orderRepoFake) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in order flow test")
}

func (f *orderRepoFake) ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in order flow test")
}

func (f *orderRepoFake) ListAdmin(ctx context.Context, flt repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	panic("not used in order flow test")
}

type historyRepoFake struct {
	rows []model.OrderStateHistory
}

func (f *historyRepoFake) Append(ctx context.Context, h model.OrderStateHistory) error {
	h.CreatedAt = time.Now()
	f.rows = append(f.rows, h)
	return nil
}

func (f *historyRepoFake) ListByOrderID(ctx context.Context, orderID int64, limit int) ([]model.OrderStateHistory, error) {
	//新しい順
	out := make([]model.OrderStateHistory, 0, len(f.rows))
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].OrderID == orderID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

type orderItemRepoFake struct {
	items []model.OrderItem
}

func (f *orderItemRepoFake) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		it.OrderID = orderID
		f.items = append(f.items, it)
	}
	return nil
}

func (f *orderItemRepoFake) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return f.items, nil
}

type inventoryRepoFake struct{}

func (f *inventoryRepoFake) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	return true, nil
}

func (f *inventoryRepoFake) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	return nil
}

type addressRepoFake struct {
	addr model.Address
}

func (f *addressRepoFake) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	return f.addr, nil
}

func (f *addressRepoFake) Create(ctx context.Context, a model.Address) (int64, error) {
	panic("not used in order flow test")
}

func (f *addressRepoFake) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	panic("not used in order flow test")
}

func (f *addressRepoFake) Update(ctx context.Context, a *model.Address) error {
	panic("not used in order flow test")
}

func (f *addressRepoFake) Delete(ctx context.Context, addressID int64) error {
	panic("not used in order flow test")
}

type productRepoFake struct {
	product model.Product
}

func (f *productRepoFake) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	return f.product, nil
}

func (f *productRepoFake) List(ctx context.Context, flt repo.ProductListFilter) ([]model.Product, int64, error) {
	panic("not used in order flow test")
}

func (f *productRepoFake) Create(ctx context.Context, p model.Product) (int64, error) {
	panic("not used in order flow test")
}

func (f *productRepoFake) Update(ctx context.Context, p *model.Product) error {
	panic("not used in order flow test")
}

func (f *productRepoFake) Delete(ctx context.Context, productID int64) error {
	panic("not used in order flow test")
}

// 作成＋管理者の2遷移で履歴がちょうど3行、ステータス順に積まれること
func TestOrderFlow_CreateThenTwoTransitions_ThreeHistoryRows(t *testing.T) {
	ctx := context.Background()

	orders := &orderRepoFake{}
	history := &historyRepoFake{}
	items := &orderItemRepoFake{}

	tx := new(TxManagerMock)
	tx.Repos = &TxReposMock{
		orders:       orders,
		orderItems:   items,
		orderHistory: history,
		products: &productRepoFake{product: model.Product{
			ID: 100, SellerID: 7, Name: "Cement OPC 53", Unit: "bag",
			Price: decimal.NewFromInt(250), Stock: 10, IsActive: true,
		}},
		inventory: &inventoryRepoFake{},
		addresses: &addressRepoFake{addr: model.Address{ID: 30, UserID: 5}},
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	customerID := int64(5)
	adminID := int64(3)

	orderUC := usecase.NewOrderUsecase(tx)
	adminUC := usecase.NewAdminOrderUsecase(tx)

	//作成 → pending_verification
	created, err := orderUC.PlaceOrder(ctx, customerID, usecase.PlaceOrderInput{
		AddressID:     30,
		PaymentMethod: "cod",
		Items:         []usecase.PlaceOrderItemInput{{ProductID: 100, Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, "pending_verification", created.Status)

	//管理者が2段階進める
	out, err := adminUC.UpdateOrder(ctx, adminID, created.ID, usecase.AdminUpdateOrderInput{
		Status: strPtr("seller_contacted"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "seller_contacted", out.Status)

	out, err = adminUC.UpdateOrder(ctx, adminID, created.ID, usecase.AdminUpdateOrderInput{
		Status: strPtr("seller_accepted"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "seller_accepted", out.Status)

	//履歴はちょうど3行、遷移した順
	if assert.Equal(t, 3, len(history.rows)) {
		assert.Equal(t, model.OrderStatusPendingVerification, history.rows[0].Status)
		assert.Equal(t, model.OrderStatusSellerContacted, history.rows[1].Status)
		assert.Equal(t, model.OrderStatusSellerAccepted, history.rows[2].Status)

		//actor：作成は顧客、遷移は管理者
		assert.Equal(t, customerID, *history.rows[0].ActorUserID)
		assert.Equal(t, adminID, *history.rows[1].ActorUserID)
		assert.Equal(t, adminID, *history.rows[2].ActorUserID)

		for _, h := range history.rows {
			assert.Equal(t, created.ID, h.OrderID)
		}
	}

	//注文側の最終状態と検証者の記録
	assert.Equal(t, model.OrderStatusSellerAccepted, orders.order.Status)
	if assert.NotNil(t, orders.order.VerifiedByAdminID) {
		assert.Equal(t, adminID, *orders.order.VerifiedByAdminID)
	}

	//履歴の読み出しは新しい順
	rows, err := adminUC.GetOrderHistory(ctx, created.ID)
	assert.NoError(t, err)
	if assert.Equal(t, 3, len(rows)) {
		assert.Equal(t, "seller_accepted", rows[0].Status)
		assert.Equal(t, "pending_verification", rows[2].Status)
	}
}
