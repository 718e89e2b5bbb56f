package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"mectofit/internal/adapters/api"
	"mectofit/internal/adapters/storage"
	authcacheStore "mectofit/internal/adapters/storage/authcache"
	"mectofit/internal/application/orchestrators"
	"mectofit/internal/application/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `mectofit %s — MectoFitness command-line client

Usage:
  mectofit login <username>     establish a session (password read from MECTOFIT_PASSWORD)
  mectofit whoami               show the signed-in user and organization
  mectofit clients              list clients
  mectofit sessions             list upcoming training sessions
  mectofit logout               end the session

Environment:
  MECTOFIT_API_URL   server root URL (default https://app.mectofitness.com)
  MECTOFIT_DB        session cache path (default mectofit.db)
`, version)
	os.Exit(2)
}

// cliNavigator is the terminal's stand-in for the login redirect.
type cliNavigator struct{}

func (cliNavigator) NavigateToLogin() {
	fmt.Fprintln(os.Stderr, "Session expired. Run `mectofit login <username>` to sign in again.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd := os.Args[1]

	// Session cache database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("MECTOFIT_DB", "mectofit.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open session cache: %v", err)
	}
	defer db.Close()

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize session cache: %v", err)
	}

	timedDB := storage.NewTimedDB(db)
	cache := authcacheStore.NewSQLiteStore(timedDB)

	ctx := context.Background()
	store, err := session.New(ctx, cache)
	if err != nil {
		log.Fatalf("failed to restore session: %v", err)
	}

	gateway, err := api.NewClient(
		envOrDefault("MECTOFIT_API_URL", "https://app.mectofitness.com"),
		api.WithTokenSource(func() string { return store.Snapshot().Token }),
		api.WithDenialHandler(func(ctx context.Context) {
			if err := store.Logout(ctx); err != nil {
				log.Printf("failed to clear session: %v", err)
			}
			cliNavigator{}.NavigateToLogin()
		}),
	)
	if err != nil {
		log.Fatalf("failed to create API client: %v", err)
	}

	auth := api.NewAuthService(gateway)
	users := api.NewUserService(gateway)
	orgs := api.NewOrganizationService(gateway)

	switch cmd {
	case "login":
		if len(os.Args) < 3 {
			usage()
		}
		password := os.Getenv("MECTOFIT_PASSWORD")
		if password == "" {
			log.Fatal("set MECTOFIT_PASSWORD before logging in")
		}
		state, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{
			Username: os.Args[2],
			Password: password,
		}, orchestrators.LoginDeps{
			Auth:         auth,
			Identity:     users,
			Organization: orgs,
			Sessions:     store,
		})
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		fmt.Printf("Signed in as %s (%s)\n", state.User.DisplayName(), state.User.Role)

	case "logout":
		if err := orchestrators.ExecuteLogout(ctx, orchestrators.LogoutDeps{
			Auth:     auth,
			Sessions: store,
		}); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("Signed out.")

	case "whoami":
		state := bootstrap(ctx, store, users, orgs)
		printIdentity(state)

	case "clients":
		bootstrap(ctx, store, users, orgs)
		list, err := api.NewClientsService(gateway).List(ctx, api.ListParams{SortBy: "last_name"})
		if err != nil {
			log.Fatalf("failed to list clients: %v", err)
		}
		for _, c := range list {
			fmt.Printf("%4d  %-30s %s\n", c.ID, c.FullName(), c.Status)
		}

	case "sessions":
		bootstrap(ctx, store, users, orgs)
		list, err := api.NewSessionsService(gateway).List(ctx, api.ListParams{
			StartDate: time.Now(),
			SortBy:    "scheduled_start",
		})
		if err != nil {
			log.Fatalf("failed to list sessions: %v", err)
		}
		for _, s := range list {
			fmt.Printf("%4d  %s  %-30s %s\n", s.ID, s.ScheduledStart.Format("2006-01-02 15:04"), s.Title, s.Status)
		}

	default:
		usage()
	}
}

// bootstrap reconciles the cached session with the server before any
// authenticated command runs.
func bootstrap(ctx context.Context, store *session.Store, users orchestrators.IdentityAPIForBootstrap, orgs orchestrators.OrganizationAPIForBootstrap) session.State {
	state, err := orchestrators.ExecuteBootstrap(ctx, orchestrators.BootstrapDeps{
		Identity:     users,
		Organization: orgs,
		Sessions:     store,
	})
	if err != nil {
		log.Fatalf("not signed in: %v", err)
	}
	return state
}

func printIdentity(state session.State) {
	if !state.IsAuthenticated || state.User == nil {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("%s <%s> — %s\n", state.User.DisplayName(), state.User.Email, state.User.Role)
	if state.Organization != nil {
		fmt.Printf("Organization: %s (%s tier)\n", state.Organization.Name, state.Organization.SubscriptionTier)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
