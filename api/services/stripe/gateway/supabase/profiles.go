package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
)

const profilesPath = "/rest/v1/profiles"

type profileRow struct {
	StripeCustomerID *string `json:"stripe_customer_id"`
	SubscriptionPlan *string `json:"subscription_plan"`
	FullName         *string `json:"full_name"`
}

// ProfileStore reads and updates the profiles table through PostgREST.
type ProfileStore struct{ c *Client }

func NewProfileStore(c *Client) ProfileStore { return ProfileStore{c: c} }

func (s ProfileStore) GetProfile(ctx context.Context, userID string) (gw.Profile, bool, error) {
	q := url.Values{}
	q.Set("select", strings.Join(gw.ProfileColumns, ","))
	q.Set("user_id", "eq."+userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.c.baseURL+profilesPath+"?"+q.Encode(), nil)
	if err != nil {
		return gw.Profile{}, false, err
	}
	s.c.setServiceHeaders(req)

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return gw.Profile{}, false, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return gw.Profile{}, false, decodeError(resp)
	}

	var rows []profileRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return gw.Profile{}, false, fmt.Errorf("decoding profile: %w", err)
	}
	switch len(rows) {
	case 0:
		return gw.Profile{}, false, nil
	case 1:
	default:
		return gw.Profile{}, false, fmt.Errorf("expected one profile for user %s, found %d", userID, len(rows))
	}
	r := rows[0]
	return gw.Profile{
		UserID:           userID,
		StripeCustomerID: deref(r.StripeCustomerID),
		SubscriptionPlan: deref(r.SubscriptionPlan),
		FullName:         deref(r.FullName),
	}, true, nil
}

func (s ProfileStore) UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error {
	body, err := json.Marshal(map[string]string{"stripe_customer_id": customerID})
	if err != nil {
		return err
	}
	q := url.Values{}
	q.Set("user_id", "eq."+userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.c.baseURL+profilesPath+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.c.setServiceHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile update request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) setServiceHeaders(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
