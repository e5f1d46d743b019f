package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tbeaudouin05/stripe-session/api/config"
	"github.com/tbeaudouin05/stripe-session/api/database"
	stripeapp "github.com/tbeaudouin05/stripe-session/api/services/stripe/app"
	stripedb "github.com/tbeaudouin05/stripe-session/api/services/stripe/db"
	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
	stripegw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway/stripe"
	"github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway/supabase"
)

// App holds the wired services for one process.
type App struct {
	SessionService stripeapp.Service
	db             *sql.DB
}

// Init initializes the database and third-party clients from cfg, and wires services.
func Init(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	app := &App{}

	sb := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)

	var auth gw.AuthGateway = sb
	if cfg.SupabaseJWTSecret != "" {
		slog.Info("verifying access tokens locally")
		auth = supabase.NewJWTVerifier(cfg.SupabaseJWTSecret)
	}

	var profiles gw.ProfileGateway
	if cfg.UsesDatabase() {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		slog.Info("database initialized successfully")
		app.db = db
		profiles = stripedb.NewProfileStore(db)
	} else {
		profiles = supabase.NewProfileStore(sb)
	}

	stripegw.SetKey(cfg.StripeSecretKey)

	app.SessionService = stripeapp.NewService(auth, profiles, stripegw.New(), stripeapp.Options{
		PriceID:       cfg.StripePriceID,
		DefaultOrigin: cfg.DefaultOrigin,
	})
	return app, nil
}

// Close releases the database connection, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
