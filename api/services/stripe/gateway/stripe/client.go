package stripegw

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
)

// SetKey configures the Stripe SDK key once during bootstrap.
func SetKey(key string) { stripe.Key = key }

// client is the Stripe SDK-backed implementation of the gateway.
type client struct{}

// New returns a StripeGateway backed by the official Stripe SDK.
func New() gw.StripeGateway { return client{} }

func (client) CreateCustomer(ctx context.Context, email, name, description string) (stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Email:       stripe.String(email),
		Name:        stripe.String(name),
		Description: stripe.String(description),
	}
	params.Context = ctx
	cust, err := customer.New(params)
	if err != nil {
		return stripe.Customer{}, wrapStripeError(err)
	}
	if cust == nil {
		return stripe.Customer{}, nil
	}
	return *cust, nil
}

func (client) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (stripe.CheckoutSession, error) {
	params := CheckoutSessionParams(customerID, priceID, successURL, cancelURL)
	params.Context = ctx
	sess, err := checkoutsession.New(params)
	if err != nil {
		return stripe.CheckoutSession{}, wrapStripeError(err)
	}
	if sess == nil {
		return stripe.CheckoutSession{}, nil
	}
	return *sess, nil
}

func (client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (stripe.BillingPortalSession, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	sess, err := portalsession.New(params)
	if err != nil {
		return stripe.BillingPortalSession{}, wrapStripeError(err)
	}
	if sess == nil {
		return stripe.BillingPortalSession{}, nil
	}
	return *sess, nil
}

// CheckoutSessionParams builds a subscription-mode checkout for a single unit of priceID.
func CheckoutSessionParams(customerID, priceID, successURL, cancelURL string) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
}

// wrapStripeError reduces SDK errors to their human readable message.
// stripe.Error renders as a JSON document otherwise.
func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return errors.New(stripeErr.Msg)
	}
	return err
}
