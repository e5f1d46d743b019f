package app

import (
	"context"
	"fmt"
	"log/slog"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
)

// Service defines the business operations for the Stripe session domain.
type Service interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error)
}

// Options are the process-wide settings the service needs.
type Options struct {
	// PriceID is the Stripe price sold through checkout.
	PriceID string
	// DefaultOrigin is used to build redirect URLs when the request has no origin.
	DefaultOrigin string
}

type serviceImpl struct {
	auth     gw.AuthGateway
	profiles gw.ProfileGateway
	gw       gw.StripeGateway
	opts     Options
}

func NewService(auth gw.AuthGateway, profiles gw.ProfileGateway, g gw.StripeGateway, opts Options) Service {
	return serviceImpl{auth: auth, profiles: profiles, gw: g, opts: opts}
}

// CreateSession authenticates the caller, makes sure their profile is linked to a
// Stripe customer and returns either a billing portal or a checkout session URL.
// Every step is terminal on failure; nothing is retried or rolled back.
func (s serviceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error) {
	slog.Info("authenticating user")
	user, err := s.auth.VerifyToken(ctx, req.Token)
	if err != nil {
		return CreateSessionResponse{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if user.ID == "" {
		return CreateSessionResponse{}, fmt.Errorf("%w: no user found", ErrAuth)
	}

	slog.Info("looking up profile", "user_id", user.ID)
	profile, exists, err := s.profiles.GetProfile(ctx, user.ID)
	if err != nil {
		return CreateSessionResponse{}, fmt.Errorf("%w: %v", ErrProfile, err)
	}
	if !exists {
		return CreateSessionResponse{}, fmt.Errorf("%w: no profile found", ErrProfile)
	}
	slog.Info("found profile", "user_id", user.ID, "plan", profile.SubscriptionPlan, "has_customer", profile.StripeCustomerID != "")

	customerID, err := s.ensureCustomer(ctx, user, profile)
	if err != nil {
		return CreateSessionResponse{}, err
	}

	origin := resolveOrigin(req.Origin, s.opts.DefaultOrigin)

	if SubscriptionPlan(profile.SubscriptionPlan).HasActiveSubscription() {
		sess, err := s.gw.CreatePortalSession(ctx, customerID, portalReturnURL(origin))
		if err != nil {
			return CreateSessionResponse{}, fmt.Errorf("%w: %v", ErrGateway, err)
		}
		slog.Info("created billing portal session", "user_id", user.ID, "customer_id", customerID)
		return CreateSessionResponse{URL: sess.URL, Kind: SessionKindPortal}, nil
	}

	sess, err := s.gw.CreateCheckoutSession(ctx, customerID, s.opts.PriceID, checkoutSuccessURL(origin), checkoutCancelURL(origin))
	if err != nil {
		return CreateSessionResponse{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	slog.Info("created checkout session", "user_id", user.ID, "customer_id", customerID)
	return CreateSessionResponse{URL: sess.URL, Kind: SessionKindCheckout}, nil
}

// ensureCustomer returns the profile's Stripe customer id, creating and linking one when absent.
// If linking fails the new customer is left orphaned in Stripe.
func (s serviceImpl) ensureCustomer(ctx context.Context, user gw.User, profile gw.Profile) (string, error) {
	if profile.StripeCustomerID != "" {
		return profile.StripeCustomerID, nil
	}

	slog.Info("creating stripe customer", "user_id", user.ID)
	cust, err := s.gw.CreateCustomer(ctx, user.Email, customerName(profile.FullName, user.Email), customerDescription(user.Email))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	slog.Info("created stripe customer", "user_id", user.ID, "customer_id", cust.ID)

	if err := s.profiles.UpdateStripeCustomerID(ctx, user.ID, cust.ID); err != nil {
		slog.Warn("stripe customer left unlinked", "user_id", user.ID, "customer_id", cust.ID, "err", err)
		return "", fmt.Errorf("%w: %v", ErrProfileUpdate, err)
	}
	slog.Info("linked stripe customer to profile", "user_id", user.ID, "customer_id", cust.ID)
	return cust.ID, nil
}
