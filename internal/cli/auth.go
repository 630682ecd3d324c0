package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token used for the remote service",
		Args:  exactArgs(0, "todo auth login|logout|status|whoami"),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("auth: missing subcommand")
		},
	}
	cmd.AddCommand(a.loginCmd(), a.logoutCmd(), a.statusCmd(), a.whoamiCmd())
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a token (from --token or the first line of stdin)",
		Args:  exactArgs(0, "todo auth login [--token <token>]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return usagef("login: no token given")
				}
				token = line
			}
			creds, err := a.creds()
			if err != nil {
				return err
			}
			if err := creds.Set(token, nil); err != nil {
				if errors.Is(err, auth.ErrEmptyToken) {
					return usagef("login: %v", err)
				}
				return fmt.Errorf("login: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged in")
			if ti, err := creds.Get(); err == nil && ti != nil && ti.Source == auth.SourceEnv {
				ui.Hint(cmd.OutOrStdout(), auth.EnvToken+" is set and takes precedence over the saved token")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token to save")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  exactArgs(0, "todo auth logout"),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := a.creds()
			if err != nil {
				return err
			}
			if err := creds.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  exactArgs(0, "todo auth status"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := a.token()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if ti == nil {
				fmt.Fprintln(w, "not logged in")
				ui.Hint(w, "Hint: run `todo auth login` or set "+auth.EnvToken)
				return nil
			}
			fmt.Fprintf(w, "logged in (source: %s)\n", ti.Source)
			fmt.Fprintf(w, "token:   %s\n", mask(ti.Token))
			switch {
			case ti.ExpiresAt == nil:
				fmt.Fprintln(w, "expires: unknown")
			case ti.Expired(time.Now()):
				ui.Fail(w, "expired "+ti.ExpiresAt.Format(time.RFC3339))
			default:
				fmt.Fprintf(w, "expires: %s\n", ti.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims carried by the token",
		Args:  exactArgs(0, "todo auth whoami"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := a.token()
			if err != nil {
				return err
			}
			if ti == nil {
				return errors.New("not logged in")
			}
			claims, err := auth.Payload(ti.Token)
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func (a *app) token() (*auth.TokenInfo, error) {
	creds, err := a.creds()
	if err != nil {
		return nil, err
	}
	ti, err := creds.Get()
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	return ti, nil
}

// mask keeps the first and last four characters.
func mask(tok string) string {
	if len(tok) <= 8 {
		return strings.Repeat("*", len(tok))
	}
	return tok[:4] + strings.Repeat("*", 8) + tok[len(tok)-4:]
}
