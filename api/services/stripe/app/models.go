package app

// SubscriptionPlan is the plan recorded on a profile.
type SubscriptionPlan string

const (
	SubscriptionPlanFree    SubscriptionPlan = "free"
	SubscriptionPlanPremium SubscriptionPlan = "premium"
)

// HasActiveSubscription reports whether the plan should be managed through the billing portal.
// Anything other than premium, including unknown values, is treated as eligible for checkout.
func (p SubscriptionPlan) HasActiveSubscription() bool { return p == SubscriptionPlanPremium }

type SessionKind string

const (
	SessionKindCheckout SessionKind = "checkout"
	SessionKindPortal   SessionKind = "portal"
)

// CreateSessionRequest carries what the transport extracted from the incoming call.
// Token is the raw bearer credential; Origin may be empty.
type CreateSessionRequest struct {
	Token  string
	Origin string
}

// CreateSessionResponse is the domain response returned by the app layer.
// HTTP layer will translate this into JSON.
type CreateSessionResponse struct {
	URL  string      `json:"url"`
	Kind SessionKind `json:"-"`
}
