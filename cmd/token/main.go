package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/config"
)

// token prints a bearer token for local development against the API.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	user := flag.String("user", cfg.TUI.UserID, "user id to put in the token subject")
	ttl := flag.Duration("ttl", cfg.Auth.TTL, "token lifetime")
	flag.Parse()

	if cfg.Auth.Secret == "" || *user == "" {
		slog.Error("AUTH_SECRET and -user (or TUI_USER_ID) are required")
		os.Exit(1)
	}

	tok, err := auth.Issue(cfg.Auth.Secret, cfg.Auth.Issuer, *user, *ttl)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	fmt.Println(tok)
}
