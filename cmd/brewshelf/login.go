package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brewshelf/brewshelf/internal/identity"
)

func newLoginCmd() *cobra.Command {
	var (
		configPath string
		email      string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in against the identity provider",
		Long: `Exchanges credentials for an access token at the configured identity
provider. Send the printed token as a bearer token to the API server to
resume the session there.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, configPath, email)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "brewshelf.yaml", "path to Brewshelf config file")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when omitted)")
	return cmd
}

func runLogin(cmd *cobra.Command, configPath, email string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Identity.URL == "" {
		return fmt.Errorf("no identity provider configured in %s", configPath)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	if email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	password, err := readPassword(cmd, reader)
	if err != nil {
		return err
	}

	client := identity.NewClient(cfg.Identity.URL, cfg.Identity.APIKey)
	sess, err := client.SignIn(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	fmt.Fprintf(out, "Signed in as %s\n", sess.User.Email)
	fmt.Fprintf(out, "Access token: %s\n", sess.Token.AccessToken)
	return nil
}

// readPassword reads without echo when stdin is a terminal, and falls back
// to a plain line read when it is piped (as in tests).
func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
