package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmtopup/storefront/internal/core/domain"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  any
		want string
	}{
		{
			name: "nested item",
			req: &placeOrderRequest{
				Items:       []orderItemRequest{{ProductID: "p1", Quantity: 0}},
				PhoneNumber: "09123456789",
			},
			want: "items[0].quantity is required",
		},
		{
			name: "empty items",
			req:  &placeOrderRequest{Items: []orderItemRequest{}, PhoneNumber: "09123456789"},
			want: "items must have at least 1 entries",
		},
		{
			name: "short password",
			req:  &registerRequest{Username: "alice", Password: "123"},
			want: "password must be at least 6 characters",
		},
		{
			name: "bad status",
			req:  &updateOrderStatusRequest{Status: "shipped"},
			want: "status must be one of: completed rejected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, tt.want, domain.Message(err))
		})
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&loginRequest{Username: "alice", Password: "x"}))
}
