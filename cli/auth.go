// ABOUTME: Admin credential CLI commands
// ABOUTME: Sets the admin email and bcrypt password hash in the config file
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harperreed/roofdesk/config"
	"github.com/harperreed/roofdesk/store"
	"golang.org/x/term"
)

// minPasswordLength is enforced on new admin passwords.
const minPasswordLength = 8

// SetPasswordCommand prompts for a new admin password and saves its hash.
func SetPasswordCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("set-password", flag.ExitOnError)
	email := fs.String("email", cfg.AdminEmail, "Admin email")
	name := fs.String("name", cfg.AdminName, "Admin display name")
	_ = fs.Parse(args)

	password, err := readPassword(os.Stdin, "New admin password: ")
	if err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		confirm, err := readPassword(os.Stdin, "Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return fmt.Errorf("passwords do not match")
		}
	}

	hash, err := store.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	cfg.AdminEmail = *email
	cfg.AdminName = *name
	cfg.AdminPasswordHash = hash
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Admin password saved for %s\n", cfg.AdminEmail)
	fmt.Printf("  Config: %s\n", config.Path())
	return nil
}

// readPassword reads without echo from a terminal, or one line from a pipe.
func readPassword(in *os.File, prompt string) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
