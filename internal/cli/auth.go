package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rihla-app/localbase/internal/auth"
	"github.com/rihla-app/localbase/internal/row"
)

// sessionView is the serializable form of a session for CLI output.
type sessionView struct {
	Token     string  `json:"token"`
	User      row.Row `json:"user"`
	ExpiresAt string  `json:"expires_at"`
}

func viewSession(sess auth.Session) sessionView {
	return sessionView{
		Token:     sess.Token,
		User:      sess.User,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	}
}

// NewSignupCommand creates the signup command.
func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	var profileJSON string

	cmd := &cobra.Command{
		Use:   "signup <email> <password>",
		Short: "Register a credential and sign in",
		Long: `Register a new email+password credential and immediately sign in,
persisting a session. Fails with DUPLICATE_USER if the email is taken.

Example:
  localbase signup sara@example.com hunter2 --profile '{"full_name":"Sara"}'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile row.Row
			if profileJSON != "" {
				if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
					parseErr := fmt.Errorf("profile: %w", err)
					rootOpts.formatter(cmd).Error("E_CLI", parseErr.Error(), nil)
					return WrapExitError(ExitCommandError, "invalid profile JSON", parseErr)
				}
			}
			return runAuth(rootOpts, cmd, func(svc *auth.Service) (auth.Session, error) {
				return svc.SignUp(cmd.Context(), args[0], args[1], profile)
			})
		},
	}

	cmd.Flags().StringVar(&profileJSON, "profile", "", "public profile fragment as JSON")
	return cmd
}

// NewSigninCommand creates the signin command.
func NewSigninCommand(rootOpts *RootOptions) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "signin [email] [password]",
		Short: "Sign in with a credential or an emulated provider",
		Long: `Sign in with an exact email+password pair, or with --provider to
emulate a third-party identity flow. Provider sign-in always succeeds and
mints a fresh provider-tagged credential; no real identity check happens.

Example:
  localbase signin sara@example.com hunter2
  localbase signin --provider google`,
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider != "" {
				if len(args) != 0 {
					return NewExitError(ExitCommandError, "--provider takes no email or password")
				}
				return runAuth(rootOpts, cmd, func(svc *auth.Service) (auth.Session, error) {
					return svc.SignInWithProvider(cmd.Context(), provider)
				})
			}
			if len(args) != 2 {
				return NewExitError(ExitCommandError, "signin requires an email and a password")
			}
			return runAuth(rootOpts, cmd, func(svc *auth.Service) (auth.Session, error) {
				return svc.SignIn(cmd.Context(), args[0], args[1])
			})
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "sign in via an emulated provider")
	return cmd
}

// NewSignoutCommand creates the signout command.
func NewSignoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "signout",
		Short:         "Clear the persisted session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			svc, cleanup, err := rootOpts.openAuth(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SignOut(cmd.Context()); err != nil {
				out.Error(backendCode(err), err.Error(), nil)
				return WrapExitError(ExitFailure, "signout failed", err)
			}
			return out.Success("signed out")
		},
	}
	return cmd
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "session",
		Short:         "Show the current session, if any",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			svc, cleanup, err := rootOpts.openAuth(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sess, found, err := svc.CurrentSession(cmd.Context())
			if err != nil {
				out.Error(backendCode(err), err.Error(), nil)
				return WrapExitError(ExitFailure, "reading session failed", err)
			}
			if !found {
				if out.Format == "json" {
					return out.Success(nil)
				}
				_, err := fmt.Fprintln(out.Writer, "no session")
				return err
			}
			return printSession(out, sess)
		},
	}
	return cmd
}

func runAuth(opts *RootOptions, cmd *cobra.Command, op func(*auth.Service) (auth.Session, error)) error {
	out := opts.formatter(cmd)
	svc, cleanup, err := opts.openAuth(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := op(svc)
	if err != nil {
		out.Error(backendCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "auth operation failed", err)
	}
	return printSession(out, sess)
}

func printSession(out *OutputFormatter, sess auth.Session) error {
	view := viewSession(sess)
	if out.Format == "json" {
		return out.Success(view)
	}
	data, err := json.Marshal(view.User)
	if err != nil {
		return err
	}
	fmt.Fprintf(out.Writer, "token: %s\nuser: %s\nexpires: %s\n", view.Token, data, view.ExpiresAt)
	return nil
}
