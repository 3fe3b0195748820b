package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-proxy/internal/auth"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	Subject string
	Role    string
	TTL     time.Duration
}

// TokenResult is the JSON output of the token command.
type TokenResult struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	Role      auth.Role `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the management API",
		Long: `Sign a JWT with security.jwt.secret. The token authorises requests to
/api/v1 routes according to its role: viewer, operator or admin.
The TTL defaults to security.jwt.access_token_ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "", "operator name (required)")
	cmd.Flags().StringVar(&opts.Role, "role", string(auth.RoleViewer), "role (viewer|operator|admin)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "token lifetime (default from config)")

	return cmd
}

func runToken(cmd *cobra.Command, rootOpts *RootOptions, opts *TokenOptions) error {
	out := rootOpts.formatter(cmd)

	if opts.Subject == "" {
		return out.Fail(errRequired("subject"))
	}
	role, err := auth.ParseRole(opts.Role)
	if err != nil {
		return out.Fail(WrapExitError(ExitCommandError, "invalid --role", err))
	}

	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return out.Fail(err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Duration(cfg.Security.JWT.AccessTokenTTL) * time.Minute
	}

	signed, err := auth.GenerateToken(opts.Subject, role, cfg.Security.JWT.Secret, ttl)
	if err != nil {
		if errors.Is(err, auth.ErrNoSecret) {
			return out.Fail(WrapExitError(ExitCommandError, "security.jwt.secret is not configured", err))
		}
		return out.Fail(WrapExitError(ExitFailure, "signing token", err))
	}

	claims, err := auth.ParseToken(signed, cfg.Security.JWT.Secret)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, "verifying token", err))
	}

	return out.Success(signed, TokenResult{
		Token:     signed,
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
