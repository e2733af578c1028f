package model_test

import (
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	valid := []model.OrderStatus{
		model.OrderStatusCreated,
		model.OrderStatusPendingVerification,
		model.OrderStatusSellerContacted,
		model.OrderStatusSellerAccepted,
		model.OrderStatusSellerRejected,
		model.OrderStatusBuyerContacted,
		model.OrderStatusBuyerConfirmed,
		model.OrderStatusBuyerRejected,
		model.OrderStatusConfirmed,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
		model.OrderStatusCompleted,
		model.OrderStatusRejected,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}

	assert.False(t, model.OrderStatus("").Valid())
	assert.False(t, model.OrderStatus("shipped").Valid())
	assert.False(t, model.OrderStatus("PENDING_VERIFICATION").Valid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from model.OrderStatus
		to   model.OrderStatus
		want bool
	}{
		//幸せな経路
		{model.OrderStatusCreated, model.OrderStatusPendingVerification, true},
		{model.OrderStatusPendingVerification, model.OrderStatusSellerContacted, true},
		{model.OrderStatusSellerContacted, model.OrderStatusSellerAccepted, true},
		{model.OrderStatusSellerAccepted, model.OrderStatusBuyerContacted, true},
		{model.OrderStatusBuyerContacted, model.OrderStatusBuyerConfirmed, true},
		{model.OrderStatusBuyerConfirmed, model.OrderStatusConfirmed, true},
		{model.OrderStatusConfirmed, model.OrderStatusOutForDelivery, true},
		{model.OrderStatusOutForDelivery, model.OrderStatusDelivered, true},
		{model.OrderStatusDelivered, model.OrderStatusCompleted, true},

		//拒否の経路
		{model.OrderStatusSellerContacted, model.OrderStatusSellerRejected, true},
		{model.OrderStatusSellerRejected, model.OrderStatusRejected, true},
		{model.OrderStatusBuyerContacted, model.OrderStatusBuyerRejected, true},
		{model.OrderStatusBuyerRejected, model.OrderStatusRejected, true},
		{model.OrderStatusPendingVerification, model.OrderStatusRejected, true},
		{model.OrderStatusBuyerConfirmed, model.OrderStatusRejected, true},

		//飛ばし・逆行は不可
		{model.OrderStatusPendingVerification, model.OrderStatusConfirmed, false},
		{model.OrderStatusCreated, model.OrderStatusCompleted, false},
		{model.OrderStatusSellerContacted, model.OrderStatusPendingVerification, false},
		{model.OrderStatusDelivered, model.OrderStatusOutForDelivery, false},
		{model.OrderStatusConfirmed, model.OrderStatusRejected, false},
		{model.OrderStatusOutForDelivery, model.OrderStatusRejected, false},

		//終端からはどこへも行けない
		{model.OrderStatusCompleted, model.OrderStatusRejected, false},
		{model.OrderStatusRejected, model.OrderStatusPendingVerification, false},

		//同じステータスは遷移ではない
		{model.OrderStatusConfirmed, model.OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, model.OrderStatusCompleted.IsTerminal())
	assert.True(t, model.OrderStatusRejected.IsTerminal())

	assert.False(t, model.OrderStatusCreated.IsTerminal())
	assert.False(t, model.OrderStatusDelivered.IsTerminal())

	//未知の値は終端扱いにしない
	assert.False(t, model.OrderStatus("xxx").IsTerminal())
}

func TestOrderStatus_NextStatuses_ReturnsCopy(t *testing.T) {
	next := model.OrderStatusPendingVerification.NextStatuses()
	assert.Equal(t, []model.OrderStatus{
		model.OrderStatusSellerContacted,
		model.OrderStatusRejected,
	}, next)

	//呼び出し側で書き換えても表は壊れない
	next[0] = model.OrderStatusCompleted
	assert.True(t, model.OrderStatusPendingVerification.CanTransitionTo(model.OrderStatusSellerContacted))
}

func TestInReviewStatuses(t *testing.T) {
	assert.Equal(t, []model.OrderStatus{
		model.OrderStatusPendingVerification,
		model.OrderStatusSellerContacted,
		model.OrderStatusSellerAccepted,
		model.OrderStatusBuyerContacted,
	}, model.InReviewStatuses)

	for _, s := range model.InReviewStatuses {
		assert.True(t, s.Valid())
		assert.False(t, s.IsTerminal())
	}
}

func TestOrderPaymentStatus_Valid(t *testing.T) {
	for _, s := range []model.OrderPaymentStatus{
		model.PaymentStatusPending,
		model.PaymentStatusPartialPending,
		model.PaymentStatusPartialPaid,
		model.PaymentStatusPaid,
		model.PaymentStatusFailed,
		model.PaymentStatusRefunded,
	} {
		assert.True(t, s.Valid(), "payment status %s should be valid", s)
	}

	assert.False(t, model.OrderPaymentStatus("").Valid())
	assert.False(t, model.OrderPaymentStatus("cancelled").Valid())
}
