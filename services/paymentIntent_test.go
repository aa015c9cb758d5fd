package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v79"
)

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		price   float64
		want    int64
		wantErr bool
	}{
		{price: 20, want: 2000},
		{price: 19.99, want: 1999},
		{price: 0.1 + 0.2, want: 30},
		{price: 0, wantErr: true},
		{price: -5, wantErr: true},
	}

	for _, tt := range tests {
		got, err := AmountInCents(tt.price)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidAmount)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestMapStripeError(t *testing.T) {
	declined := &stripe.Error{Code: stripe.ErrorCodeCardDeclined, Msg: "declined", HTTPStatusCode: http.StatusPaymentRequired}
	assert.ErrorIs(t, mapStripeError(declined), ErrPaymentFailed)

	outage := &stripe.Error{HTTPStatusCode: http.StatusServiceUnavailable}
	assert.ErrorIs(t, mapStripeError(outage), ErrProviderDown)

	other := errors.New("boom")
	mapped := mapStripeError(other)
	assert.ErrorIs(t, mapped, other)
	assert.NotErrorIs(t, mapped, ErrPaymentFailed)
}
