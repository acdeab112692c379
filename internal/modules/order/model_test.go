package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		s, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), s)
	}

	_, err := ParseStatus("PAID")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusCancelled, true}, // administrative override
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{Name: "A", UnitPrice: 10, Quantity: 2},
		{Name: "B", UnitPrice: 5, Quantity: 1},
	}
	assert.Equal(t, 25.00, ComputeTotal(items))

	assert.Equal(t, 0.00, ComputeTotal(nil))

	// stays exact to the minor unit for cent-denominated prices
	items = []LineItem{{Name: "C", UnitPrice: 19.99, Quantity: 3}}
	assert.Equal(t, 59.97, ComputeTotal(items))
}
