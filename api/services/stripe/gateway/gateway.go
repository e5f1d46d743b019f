package gateway

//go:generate mockgen -destination=mock/mock_gateway.go -package=mock github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway StripeGateway,AuthGateway,ProfileGateway

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
)

// StripeGateway abstracts Stripe SDK operations needed by the app layer.
// Methods return values (not pointers) to respect the project's preference
// to avoid pointer types in public interfaces.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, email, name, description string) (stripe.Customer, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (stripe.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (stripe.BillingPortalSession, error)
}

// User is the identity resolved from a bearer token by the auth service.
type User struct {
	ID    string
	Email string
}

// AuthGateway exchanges a bearer token for the user it was issued to.
// A zero User with a nil error means the token resolved to no user.
type AuthGateway interface {
	VerifyToken(ctx context.Context, token string) (User, error)
}

// Profile is the application's per-user row. Nullable columns map to "".
type Profile struct {
	UserID           string
	StripeCustomerID string
	SubscriptionPlan string
	FullName         string
}

// ProfileColumns are the only columns read from the profiles table.
var ProfileColumns = []string{"stripe_customer_id", "subscription_plan", "full_name"}

// ProfileGateway reads and links profiles. GetProfile reports exists=false when no row matches.
type ProfileGateway interface {
	GetProfile(ctx context.Context, userID string) (profile Profile, exists bool, err error)
	UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error
}
