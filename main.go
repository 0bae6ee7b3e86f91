// ABOUTME: Entry point for the roofdesk site server, admin tools, and MCP server
// ABOUTME: Routes to serve, mcp, or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/roofdesk/apiclient"
	"github.com/harperreed/roofdesk/cli"
	"github.com/harperreed/roofdesk/config"
	"github.com/harperreed/roofdesk/db"
	"github.com/harperreed/roofdesk/kv"
	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/store"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Backend database path (default: ~/.local/share/roofdesk/leads.db)")
	kvDir := flag.String("kv-dir", "", "Local store directory (default: ~/.local/share/roofdesk/state)")
	offline := flag.Bool("offline", false, "Never contact the backend API")
	initOnly := flag.Bool("init", false, "Initialize database and exit (use with 'serve')")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("roofdesk version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *kvDir != "" {
		cfg.KVDir = *kvDir
	}

	var backend *apiclient.Client
	if !*offline {
		backend = apiclient.New(cfg.APIBaseURL)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		database, err := db.OpenDatabase(cfg.ResolvedDBPath())
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		log.Printf("Lead database: %s", cfg.ResolvedDBPath())
		if *initOnly {
			log.Println("Database initialized successfully")
			os.Exit(0)
		}

		app, kvStore := openApp(cfg)
		defer kvStore.Close()

		if *offline {
			commandArgs = append([]string{"--no-remote"}, commandArgs...)
		}
		if err := cli.ServeCommand(database, app, cfg, commandArgs); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "mcp":
		app, kvStore := openApp(cfg)
		defer kvStore.Close()

		if err := cli.MCPCommand(app, leadBackend(backend)); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "form":
		app, kvStore := openApp(cfg)
		defer kvStore.Close()

		if err := cli.FormCommand(app, cfg, submitter(backend)); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "admin":
		app, kvStore := openApp(cfg)
		defer kvStore.Close()

		if err := cli.AdminCommand(app, leadBackend(backend)); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "auth":
		if len(commandArgs) == 0 || commandArgs[0] != "set-password" {
			fmt.Println("Error: auth requires the set-password subcommand")
			printUsage()
			os.Exit(1)
		}
		if err := cli.SetPasswordCommand(cfg, commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "leads", "content", "images", "viz":
		if len(commandArgs) == 0 {
			fmt.Printf("Error: %s requires a subcommand\n", command)
			printUsage()
			os.Exit(1)
		}

		app, kvStore := openApp(cfg)
		defer kvStore.Close()

		if err := runSubcommand(command, commandArgs[0], commandArgs[1:], app, leadBackend(backend)); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runSubcommand(command, sub string, args []string, app *store.App, backend cli.LeadBackend) error {
	switch command + " " + sub {
	// Lead commands
	case "leads list":
		return cli.ListLeadsCommand(app, args)
	case "leads show":
		return cli.ShowLeadCommand(app, args)
	case "leads status":
		return cli.UpdateLeadStatusCommand(app, args)
	case "leads delete":
		return cli.DeleteLeadCommand(app, backend, args)
	case "leads stats":
		return cli.LeadStatsCommand(app, args)
	case "leads sync":
		return cli.SyncLeadsCommand(app, backend, args)

	// Content commands
	case "content show":
		return cli.ShowContentCommand(app, args)
	case "content set":
		return cli.SetContentCommand(app, args)
	case "content toggle":
		return cli.ToggleContentCommand(app, args)
	case "content move":
		return cli.MoveContentCommand(app, args)
	case "content seed":
		return cli.SeedContentCommand(app, args)
	case "content export":
		return cli.ExportContentCommand(app, args)

	// Image commands
	case "images add":
		return cli.AddImageCommand(app, args)
	case "images list":
		return cli.ListImagesCommand(app, args)
	case "images category":
		return cli.CategorizeImageCommand(app, args)
	case "images delete":
		return cli.DeleteImageCommand(app, args)

	// Visualization commands
	case "viz dashboard":
		return cli.VizDashboardCommand(app, args)
	case "viz graph":
		return cli.VizGraphCommand(app, args)
	}

	fmt.Printf("Unknown %s command: %s\n\n", command, sub)
	printUsage()
	os.Exit(1)
	return nil
}

func openApp(cfg *config.Config) (*store.App, *kv.Store) {
	kvStore, err := kv.Open(cfg.ResolvedKVDir())
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	app, err := store.Open(kvStore, store.Credentials{
		Email:        cfg.AdminEmail,
		Name:         cfg.AdminName,
		PasswordHash: cfg.AdminPasswordHash,
	})
	if err != nil {
		_ = kvStore.Close()
		log.Fatalf("Failed to load stores: %v", err)
	}
	return app, kvStore
}

// leadBackend and submitter keep a nil client from becoming a non-nil interface.
func leadBackend(c *apiclient.Client) cli.LeadBackend {
	if c == nil {
		return nil
	}
	return c
}

func submitter(c *apiclient.Client) leadform.Submitter {
	if c == nil {
		return nil
	}
	return c
}

func printUsage() {
	fmt.Printf(`roofdesk v%s - Roofing site, lead form, and admin toolkit

USAGE:
  roofdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Backend database path (default: ~/.local/share/roofdesk/leads.db)
  --kv-dir <path>        Local store directory (default: ~/.local/share/roofdesk/state)
  --offline              Never contact the backend API
  --init                 Initialize database and exit (use with 'serve')

COMMANDS:
  serve                  Run the website, lead form, admin API, and /api endpoints
    --port <n>             HTTP port (default: 8080 or ROOFDESK_PORT)
    --cache-ttl <dur>      Lead list cache lifetime when ROOFDESK_REDIS_URL is set
    --no-remote            Do not forward form submissions to the backend API

  mcp                    Start MCP server on stdio
  form                   Fill in the lead form in the terminal
  admin                  Full-screen admin for leads, pages, and images

LEAD COMMANDS:
  roofdesk leads list       List leads
    --query <text>            Search by name, email, or phone
    --status <status>         new, contacted, completed, or all
    --limit <n>               Max results (default: 50)
  roofdesk leads show <id>                Show one lead
  roofdesk leads status <id> <status>     Set a lead's status
  roofdesk leads delete <id>              Delete a lead (and from the backend)
  roofdesk leads stats                    Count leads by status
  roofdesk leads sync                     Replace local leads with the backend's

CONTENT COMMANDS:
  roofdesk content show [page]                         List pages or a page's components
  roofdesk content set [--name n] <page> <id> k=v...   Change component settings
  roofdesk content toggle <page> <id>                  Show or hide a component
  roofdesk content move <page> <id> <position>         Reorder a component
  roofdesk content seed [--file pages.yaml]            Load pages (default: built-in)
  roofdesk content export [--output file]              Write pages as YAML

IMAGE COMMANDS:
  roofdesk images add --url <url> [--title t] [--alt a] [--category c] [--tags a,b]
  roofdesk images list [--query text] [--category c]
  roofdesk images category <id> <category>
  roofdesk images delete <id>

AUTH COMMANDS:
  roofdesk auth set-password [--email e] [--name n]    Set the admin password

VISUALIZATION COMMANDS:
  roofdesk viz dashboard                       Lead dashboard in the terminal
  roofdesk viz graph [--by dimension] [--output file]
                                               Lead funnel as GraphViz DOT

ENVIRONMENT:
  ROOFDESK_API_URL, ROOFDESK_PORT, ROOFDESK_REDIS_URL, ROOFDESK_ADMIN_EMAIL,
  ROOFDESK_ADMIN_PASSWORD_HASH, ROOFDESK_FORM_PHOTO_STEP, ROOFDESK_DATA_DIR
  A .env file in the working directory is read at startup.

`, version)
}
