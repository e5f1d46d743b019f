package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
)

// ProfileStore reads and links rows of public.profiles over a direct Postgres connection.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) ProfileStore { return ProfileStore{db: db} }

var selectProfileSQL = fmt.Sprintf(
	"SELECT %s FROM profiles WHERE user_id = $1 LIMIT 2",
	strings.Join(gw.ProfileColumns, ", "),
)

// GetProfile returns the unique profile row for userID. More than one row is an error.
func (s ProfileStore) GetProfile(ctx context.Context, userID string) (gw.Profile, bool, error) {
	rows, err := s.db.QueryContext(ctx, selectProfileSQL, userID)
	if err != nil {
		return gw.Profile{}, false, err
	}
	defer rows.Close()

	var (
		profile gw.Profile
		found   int
	)
	for rows.Next() {
		var customerID, plan, fullName sql.NullString
		if err := rows.Scan(&customerID, &plan, &fullName); err != nil {
			return gw.Profile{}, false, err
		}
		found++
		profile = gw.Profile{
			UserID:           userID,
			StripeCustomerID: customerID.String,
			SubscriptionPlan: plan.String,
			FullName:         fullName.String,
		}
	}
	if err := rows.Err(); err != nil {
		return gw.Profile{}, false, err
	}
	switch found {
	case 0:
		return gw.Profile{}, false, nil
	case 1:
		return profile, true, nil
	default:
		return gw.Profile{}, false, errors.New("multiple profiles found for user")
	}
}

// UpdateStripeCustomerID stores customerID on the user's profile.
func (s ProfileStore) UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE profiles SET stripe_customer_id = $1 WHERE user_id = $2`, customerID, userID)
	return err
}
