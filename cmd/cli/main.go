package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/authgate/internal/adapter/api"
	"github.com/iho/authgate/internal/adapter/credstore"
	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/infrastructure/config"
	"github.com/iho/authgate/internal/infrastructure/logger"
	"github.com/iho/authgate/internal/infrastructure/redis"
	"github.com/iho/authgate/internal/usecase"
)

var (
	baseURL string
	backend string
	verbose bool
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "authgate",
		Short: "AuthGate CLI",
		Long:  `A command line client for the AuthGate session and authorization API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Base URL of the auth API (defaults to API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Credential backend: file, memory or redis (defaults to CREDENTIAL_BACKEND)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	var email, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session credential",
		Run: func(cmd *cobra.Command, args []string) {
			runLogin(email, password)
		},
	}
	loginCmd.Flags().StringVar(&email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and discard the stored credential",
		Run: func(cmd *cobra.Command, args []string) {
			runLogout()
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Run: func(cmd *cobra.Command, args []string) {
			runWhoami()
		},
	}

	canCmd := &cobra.Command{
		Use:   "can <permission> [permission...]",
		Short: "Check whether the session holds the given permissions",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runCan(args)
		},
	}

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the navigation menu visible to the session",
		Run: func(cmd *cobra.Command, args []string) {
			runMenu()
		},
	}

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, canCmd, menuCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildSession wires the credential store, API client and session state
// for a single CLI invocation.
func buildSession(ctx context.Context) (*usecase.SessionUseCase, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if baseURL == "" {
		baseURL = cfg.APIBaseURL
	}
	if backend == "" {
		backend = cfg.CredentialBackend
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console"})

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var session *usecase.SessionUseCase
	client := api.NewClient(baseURL, store, log,
		api.WithSessionExpiredHandler(func() {
			if session != nil {
				session.Invalidate()
			}
		}),
	)
	session = usecase.NewSessionUseCase(store, client, log, nil)

	return session, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (usecase.CredentialStore, error) {
	switch backend {
	case "memory":
		return credstore.NewMemory(), nil
	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return credstore.NewRedis(client), nil
	case "file":
		path := cfg.CredentialFile
		if path == "" {
			var err error
			path, err = credstore.DefaultFilePath()
			if err != nil {
				return nil, fmt.Errorf("resolve credential file: %w", err)
			}
		}
		return credstore.NewFile(path), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", backend)
	}
}

func runLogin(email, password string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, err := buildSession(ctx)
	if err != nil {
		fatal(err)
	}

	result := session.Login(ctx, email, password)
	if !result.OK {
		fmt.Printf("Login failed: %s\n", result.Message)
		os.Exit(1)
	}

	fmt.Printf("Logged in as %s %s <%s> (%s)\n",
		result.User.FirstName, result.User.LastName, result.User.Email, result.User.Role.Name)
}

func runLogout() {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, err := buildSession(ctx)
	if err != nil {
		fatal(err)
	}

	session.Logout(ctx)
	fmt.Println("Logged out")
}

func runWhoami() {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, err := buildSession(ctx)
	if err != nil {
		fatal(err)
	}

	snap := session.Bootstrap(ctx)
	if snap.Status != domain.StatusAuthenticated {
		fmt.Println("Not logged in")
		os.Exit(1)
	}

	u := snap.User
	fmt.Printf("%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	fmt.Printf("Role: %s\n", u.Role.Name)
	if len(u.Permissions) > 0 {
		fmt.Printf("Permissions: %s\n", strings.Join(u.Permissions, ", "))
	}
}

func runCan(codes []string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, err := buildSession(ctx)
	if err != nil {
		fatal(err)
	}

	snap := session.Bootstrap(ctx)
	if snap.Status != domain.StatusAuthenticated {
		fmt.Println("Not logged in")
		os.Exit(1)
	}

	eval := snap.Evaluator()
	denied := false
	for _, code := range codes {
		if eval.Can(code) {
			fmt.Printf("%s: allowed\n", code)
		} else {
			fmt.Printf("%s: denied\n", code)
			denied = true
		}
	}
	if denied {
		os.Exit(1)
	}
}

func runMenu() {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, err := buildSession(ctx)
	if err != nil {
		fatal(err)
	}

	snap := session.Bootstrap(ctx)
	if snap.Status != domain.StatusAuthenticated {
		fmt.Println("Not logged in")
		os.Exit(1)
	}

	guard := usecase.NewDefaultGuard()
	printMenu(guard.Menu(snap, domain.DefaultMenu()), 0)
}

func printMenu(items []domain.MenuItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		if item.Path != "" {
			fmt.Printf("%s%s (%s)\n", indent, item.Label, item.Path)
		} else {
			fmt.Printf("%s%s\n", indent, item.Label)
		}
		printMenu(item.Children, depth+1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
