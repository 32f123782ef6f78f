package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"smartdoc-admin/internal/api"
	"smartdoc-admin/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// resolveToken produces the bearer token for a scriptable command: --token
// wins, then --email with the password from SMARTDOC_ADMIN_PASSWORD or an
// interactive prompt. The prompt goes to stderr so piped stdout stays clean.
func resolveToken(ctx context.Context, cmd *cobra.Command, app *App, c *api.Client) (string, error) {
	if t := strings.TrimSpace(app.Token); t != "" {
		if session.Expired(t, time.Now()) {
			return "", errors.New("token has expired: log in again to get a fresh one")
		}
		return t, nil
	}

	email := strings.TrimSpace(app.Email)
	if email == "" {
		return "", errors.New("authentication required: pass --token or --email (or set SMARTDOC_ADMIN_TOKEN)")
	}

	password := os.Getenv("SMARTDOC_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", email)
		b, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	}

	grant, err := c.Login(ctx, email, password)
	if err != nil {
		return "", errors.New(api.LoginMessage(err))
	}
	return grant.AccessToken, nil
}
