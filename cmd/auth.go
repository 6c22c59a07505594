package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/tilda/internal/google"
)

var authFlagKeys = map[string]string{
	"google.credentials_file": "credentials",
	"google.token_file":       "token",
}

func newAuthCmd() *cobra.Command {
	var (
		code     string
		printURL bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize tilda to access Google Calendar",
		Long: `Run the OAuth flow for an installed-app client and store the user token.

Visit the printed URL, grant calendar access and paste the authorization code.
The code can also be passed with --code. Service-account credentials need no
token and skip this step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, authFlagKeys)
			if err != nil {
				return err
			}

			conf, err := google.LoadOAuthConfig(cfg.Google.CredentialsFile)
			if err != nil {
				return err
			}
			store := google.NewFileTokenProvider(cfg.Google.TokenFile)
			if store.HasToken() && !printURL {
				fmt.Fprintf(cmd.ErrOrStderr(), "Replacing existing token at %s\n", store.Path())
			}

			if printURL {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), google.GetAuthURL(conf))
				return err
			}

			if code == "" {
				code, err = promptAuthCode(cmd.OutOrStdout(), cmd.InOrStdin(), google.GetAuthURL(conf))
				if err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := google.SaveToken(ctx, conf, store, code); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().String("credentials", "", "OAuth client credentials file")
	cmd.Flags().String("token", "", "Token file to write")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code (skips the prompt)")
	cmd.Flags().BoolVar(&printURL, "print-url", false, "Only print the authorization URL")

	return cmd
}

// promptAuthCode prints the authorization URL and reads the code the user pastes.
func promptAuthCode(w io.Writer, r io.Reader, authURL string) (string, error) {
	fmt.Fprintf(w, "Visit this URL in your browser and authorize calendar access:\n\n  %s\n\nAuthorization code: ", authURL)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", fmt.Errorf("no authorization code entered")
	}
	return code, nil
}
