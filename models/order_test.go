package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusDelivered, OrderStatusCancelled},
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, from.Terminal())
		for _, to := range allStatuses {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" delivered ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, s)

	s, err = ParseOrderStatus("Canceled")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, s)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestDeriveSellerIDs(t *testing.T) {
	o := Order{ID: "abcdef123", Items: []OrderItem{{SellerID: "s2"}, {SellerID: "s1"}, {SellerID: "s2"}}}
	o.DeriveSellerIDs()
	assert.Equal(t, []string{"s2", "s1"}, o.SellerIDs)
	assert.True(t, o.HasSeller("s1"))
	assert.False(t, o.HasSeller("s3"))
	assert.Equal(t, "abcdef", o.ShortID())
}

func TestParseRole(t *testing.T) {
	for _, r := range []string{"buyer", "Seller", "ADMIN", "moderator"} {
		_, err := ParseRole(r)
		assert.NoError(t, err, r)
	}
	_, err := ParseRole("superuser")
	assert.Error(t, err)
}
