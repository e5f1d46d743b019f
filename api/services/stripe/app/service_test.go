package app

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
	"github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway/mock"
)

const (
	testPriceID = "price_test"
	testOrigin  = "https://app.example.com"
	testUserID  = "0b6c1a2e-user"
	testEmail   = "ada@example.com"
)

type fixture struct {
	auth     *mock.MockAuthGateway
	profiles *mock.MockProfileGateway
	stripe   *mock.MockStripeGateway
	svc      Service
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		auth:     mock.NewMockAuthGateway(ctrl),
		profiles: mock.NewMockProfileGateway(ctrl),
		stripe:   mock.NewMockStripeGateway(ctrl),
	}
	f.svc = NewService(f.auth, f.profiles, f.stripe, Options{PriceID: testPriceID, DefaultOrigin: "http://localhost:3000"})
	return f
}

func (f fixture) expectUser() {
	f.auth.EXPECT().VerifyToken(gomock.Any(), "tok").Return(gw.User{ID: testUserID, Email: testEmail}, nil)
}

func TestCreateSession_AuthErrorStopsBeforeProfile(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().VerifyToken(gomock.Any(), "").Return(gw.User{}, errors.New("invalid JWT"))

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, "authentication failed: invalid JWT", err.Error())
}

func TestCreateSession_NoUserIsAuthError(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().VerifyToken(gomock.Any(), "tok").Return(gw.User{}, nil)

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
	assert.ErrorIs(t, err, ErrAuth)
	assert.Contains(t, err.Error(), "no user found")
}

func TestCreateSession_MissingProfile(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).Return(gw.Profile{}, false, nil)

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
	assert.ErrorIs(t, err, ErrProfile)
	assert.Contains(t, err.Error(), "no profile found")
}

func TestCreateSession_ProfileLookupError(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).Return(gw.Profile{}, false, errors.New("connection refused"))

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
	assert.ErrorIs(t, err, ErrProfile)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCreateSession_CreatesAndLinksCustomer(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
		Return(gw.Profile{UserID: testUserID, SubscriptionPlan: "free", FullName: "Ada Lovelace"}, true, nil)
	gomock.InOrder(
		f.stripe.EXPECT().CreateCustomer(gomock.Any(), testEmail, "Ada Lovelace", "Customer for "+testEmail).
			Return(stripe.Customer{ID: "cus_new"}, nil).Times(1),
		f.profiles.EXPECT().UpdateStripeCustomerID(gomock.Any(), testUserID, "cus_new").Return(nil).Times(1),
		f.stripe.EXPECT().CreateCheckoutSession(gomock.Any(), "cus_new", testPriceID,
			testOrigin+"/profile?success=true", testOrigin+"/profile?canceled=true").
			Return(stripe.CheckoutSession{URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil).Times(1),
	)

	resp, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok", Origin: testOrigin})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", resp.URL)
	assert.Equal(t, SessionKindCheckout, resp.Kind)
}

func TestCreateSession_CustomerNameFallsBackToEmail(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
		Return(gw.Profile{UserID: testUserID, SubscriptionPlan: "premium"}, true, nil)
	f.stripe.EXPECT().CreateCustomer(gomock.Any(), testEmail, testEmail, "Customer for "+testEmail).
		Return(stripe.Customer{ID: "cus_new"}, nil)
	f.profiles.EXPECT().UpdateStripeCustomerID(gomock.Any(), testUserID, "cus_new").Return(nil)
	f.stripe.EXPECT().CreatePortalSession(gomock.Any(), "cus_new", testOrigin+"/profile").
		Return(stripe.BillingPortalSession{URL: "https://billing.stripe.com/p/session/1"}, nil)

	resp, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok", Origin: testOrigin})
	require.NoError(t, err)
	assert.Equal(t, SessionKindPortal, resp.Kind)
}

func TestCreateSession_ProfileUpdateFailureLeavesCustomerOrphaned(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
		Return(gw.Profile{UserID: testUserID, SubscriptionPlan: "free"}, true, nil)
	f.stripe.EXPECT().CreateCustomer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(stripe.Customer{ID: "cus_orphan"}, nil).Times(1)
	f.profiles.EXPECT().UpdateStripeCustomerID(gomock.Any(), testUserID, "cus_orphan").
		Return(errors.New("permission denied")).Times(1)
	// no session calls are expected; gomock fails the test on any unexpected call

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
	assert.ErrorIs(t, err, ErrProfileUpdate)
	assert.Equal(t, "failed to update profile: permission denied", err.Error())
}

func TestCreateSession_PremiumOpensPortal(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
		Return(gw.Profile{UserID: testUserID, StripeCustomerID: "cus_1", SubscriptionPlan: "premium"}, true, nil)
	f.stripe.EXPECT().CreatePortalSession(gomock.Any(), "cus_1", testOrigin+"/profile").
		Return(stripe.BillingPortalSession{URL: "https://billing.stripe.com/p/session/1"}, nil).Times(1)
	f.stripe.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	resp, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok", Origin: testOrigin})
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session/1", resp.URL)
	assert.Equal(t, SessionKindPortal, resp.Kind)
}

func TestCreateSession_UnknownPlanFallsThroughToCheckout(t *testing.T) {
	for _, plan := range []string{"free", "", "past_due", "Premium"} {
		t.Run(plan, func(t *testing.T) {
			f := newFixture(t)
			f.expectUser()
			f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
				Return(gw.Profile{UserID: testUserID, StripeCustomerID: "cus_1", SubscriptionPlan: plan}, true, nil)
			f.stripe.EXPECT().CreateCheckoutSession(gomock.Any(), "cus_1", testPriceID, gomock.Any(), gomock.Any()).
				Return(stripe.CheckoutSession{URL: "https://checkout.stripe.com/x"}, nil).Times(1)
			f.stripe.EXPECT().CreatePortalSession(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			resp, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok", Origin: testOrigin})
			require.NoError(t, err)
			assert.Equal(t, SessionKindCheckout, resp.Kind)
		})
	}
}

func TestCreateSession_DefaultOrigin(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
		Return(gw.Profile{UserID: testUserID, StripeCustomerID: "cus_1", SubscriptionPlan: "free"}, true, nil)
	f.stripe.EXPECT().CreateCheckoutSession(gomock.Any(), "cus_1", testPriceID,
		"http://localhost:3000/profile?success=true", "http://localhost:3000/profile?canceled=true").
		Return(stripe.CheckoutSession{URL: "https://checkout.stripe.com/x"}, nil)

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
	require.NoError(t, err)
}

func TestCreateSession_RepeatedCallsDoNotCreateSecondCustomer(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().VerifyToken(gomock.Any(), "tok").Return(gw.User{ID: testUserID, Email: testEmail}, nil).Times(2)
	f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
		Return(gw.Profile{UserID: testUserID, StripeCustomerID: "cus_1", SubscriptionPlan: "free"}, true, nil).Times(2)
	f.stripe.EXPECT().CreateCustomer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.profiles.EXPECT().UpdateStripeCustomerID(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.stripe.EXPECT().CreateCheckoutSession(gomock.Any(), "cus_1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(stripe.CheckoutSession{URL: "https://checkout.stripe.com/x"}, nil).Times(2)

	for i := 0; i < 2; i++ {
		_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
		require.NoError(t, err)
	}
}

func TestCreateSession_StripeFailures(t *testing.T) {
	t.Run("customer", func(t *testing.T) {
		f := newFixture(t)
		f.expectUser()
		f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
			Return(gw.Profile{UserID: testUserID, SubscriptionPlan: "free"}, true, nil)
		f.stripe.EXPECT().CreateCustomer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(stripe.Customer{}, errors.New("Invalid API Key provided"))

		_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
		assert.ErrorIs(t, err, ErrGateway)
		assert.Contains(t, err.Error(), "Invalid API Key provided")
	})

	t.Run("portal", func(t *testing.T) {
		f := newFixture(t)
		f.expectUser()
		f.profiles.EXPECT().GetProfile(gomock.Any(), testUserID).
			Return(gw.Profile{UserID: testUserID, StripeCustomerID: "cus_1", SubscriptionPlan: "premium"}, true, nil)
		f.stripe.EXPECT().CreatePortalSession(gomock.Any(), "cus_1", gomock.Any()).
			Return(stripe.BillingPortalSession{}, errors.New("No configuration provided"))

		_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{Token: "tok"})
		assert.ErrorIs(t, err, ErrGateway)
	})
}
