package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	total, err := ComputeTotal([]orderitem.OrderItem{
		{ProductID: "prod1", Name: "product_maggi", Quantity: 2, Price: "₹96"},
		{ProductID: "prod3", Name: "product_parle_g", Quantity: 1, Price: "₹80"},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(272).Equal(total))
}

func TestComputeTotal_BadPrice(t *testing.T) {
	_, err := ComputeTotal([]orderitem.OrderItem{{ProductID: "p", Quantity: 1, Price: "n/a"}})
	assert.Error(t, err)
}

func TestOrder_JSONTotalIsNumber(t *testing.T) {
	o := Order{
		ID:            "B2C-8375",
		Total:         decimal.RequireFromString("272.5"),
		PaymentMethod: PaymentCOD,
		Status:        StatusNew,
		Timestamp:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total":272.5`)

	var back Order
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, o.Total.Equal(back.Total))
}

func TestOrder_CloneDoesNotShareItems(t *testing.T) {
	o := Order{Items: []orderitem.OrderItem{{ProductID: "p1", Quantity: 1}}}
	c := o.Clone()
	c.Items[0].Quantity = 9

	assert.Equal(t, 1, o.Items[0].Quantity)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusNew.CanTransitionTo(StatusPreparing))
	assert.True(t, StatusNew.CanTransitionTo(StatusRejected))
	assert.False(t, StatusNew.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusPreparing.CanTransitionTo(StatusReadyForPickup))
	assert.True(t, StatusReadyForPickup.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusNew))
	assert.False(t, StatusRejected.CanTransitionTo(StatusPreparing))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("READY_FOR_PICKUP")
	require.NoError(t, err)
	assert.Equal(t, StatusReadyForPickup, s)

	_, err = ParseStatus("SHIPPED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestFilter_Match(t *testing.T) {
	rejected := Order{Status: StatusRejected}
	preparing := Order{Status: StatusPreparing}

	assert.True(t, FilterHistory.Match(rejected))
	assert.False(t, FilterHistory.Match(preparing))
	assert.True(t, FilterPreparing.Match(preparing))
	assert.True(t, FilterAll.Match(rejected))

	_, err := ParseFilter("SHIPPED")
	assert.Error(t, err)
}
