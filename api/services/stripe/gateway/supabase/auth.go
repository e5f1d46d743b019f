package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
)

// errSessionMissing mirrors what GoTrue clients report for an empty credential.
var errSessionMissing = errors.New("auth session missing")

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyToken resolves the user behind token with GET /auth/v1/user.
func (c *Client) VerifyToken(ctx context.Context, token string) (gw.User, error) {
	if token == "" {
		return gw.User{}, errSessionMissing
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return gw.User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gw.User{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gw.User{}, decodeError(resp)
	}
	var u authUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return gw.User{}, fmt.Errorf("decoding auth user: %w", err)
	}
	return gw.User{ID: u.ID, Email: u.Email}, nil
}
