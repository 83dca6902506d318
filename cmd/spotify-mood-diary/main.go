// Command spotify-mood-diary runs the Spotify Mood Diary web application.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/justestif/go-spotify-mood-diary/internal/analysis"
	"github.com/justestif/go-spotify-mood-diary/internal/anthropic"
	"github.com/justestif/go-spotify-mood-diary/internal/db"
	"github.com/justestif/go-spotify-mood-diary/internal/web"
	webfs "github.com/justestif/go-spotify-mood-diary/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Validate environment variables
	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")
	databaseURL := os.Getenv("DATABASE_URL")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("please set SPOTIFY_ID and SPOTIFY_SECRET environment variables")
	}
	if databaseURL == "" {
		return fmt.Errorf("please set the DATABASE_URL environment variable")
	}
	if anthropicKey == "" {
		return fmt.Errorf("please set the ANTHROPIC_API_KEY environment variable")
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = web.DefaultAddr
	}
	redirectURI := os.Getenv("SPOTIFY_REDIRECT_URI")

	// Connect to the database and ensure the schema exists
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Wire the analysis engine to the LLM and the store
	generator := anthropic.NewClient(anthropicKey)
	analyzer := analysis.New(database.Analyses(), generator)

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	// Create and start server
	server, err := web.NewServer(web.ServerConfig{
		Addr:         addr,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		Database:     database,
		Analyzer:     analyzer,
		TemplatesFS:  templates,
		StaticFS:     static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
