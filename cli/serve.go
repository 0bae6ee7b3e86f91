// ABOUTME: HTTP server subcommand
// ABOUTME: Serves the marketing site, lead form, admin API, and backend lead endpoints
package cli

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/harperreed/roofdesk/apiclient"
	"github.com/harperreed/roofdesk/cache"
	"github.com/harperreed/roofdesk/config"
	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/store"
	"github.com/harperreed/roofdesk/web"
)

// FormOptions returns the lead form configuration shared by the site and the TUI.
// submitter may be nil.
func FormOptions(cfg *config.Config, submitter leadform.Submitter) []leadform.Option {
	var opts []leadform.Option
	if cfg.FormPhotoStep {
		opts = append(opts, leadform.WithPhotoStep())
	}
	if submitter != nil {
		opts = append(opts, leadform.WithSubmitter(submitter))
	}
	return opts
}

// ServeCommand starts the web server and blocks until it exits.
func ServeCommand(database *sql.DB, app *store.App, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", cfg.Port, "HTTP port")
	cacheTTL := fs.Duration("cache-ttl", time.Minute, "Lead list cache lifetime when Redis is configured")
	noRemote := fs.Bool("no-remote", false, "Do not forward form submissions to the backend API")
	_ = fs.Parse(args)

	opts := []web.ServerOption{}

	if !*noRemote {
		remote := apiclient.New(cfg.APIBaseURL)
		opts = append(opts, web.WithRemote(remote), web.WithFormOptions(FormOptions(cfg, remote)...))
		log.Printf("Backend API: %s", cfg.APIBaseURL)
	} else {
		opts = append(opts, web.WithFormOptions(FormOptions(cfg, nil)...))
	}

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c, err := cache.Dial(ctx, cfg.RedisURL, *cacheTTL)
		cancel()
		if err != nil {
			log.Printf("warning: redis unavailable, serving without cache: %v", err)
		} else {
			defer func() { _ = c.Close() }()
			opts = append(opts, web.WithCache(c))
		}
	}

	server, err := web.NewServer(database, app, opts...)
	if err != nil {
		return err
	}

	log.Printf("Listening on http://localhost:%d", *port)
	return server.Start(*port)
}
