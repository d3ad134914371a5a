package cmd

import (
	"context"
	"errors"
	"fmt"

	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var revokeAdmin bool

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var setAdminCmd = &cobra.Command{
	Use:   "set-admin <email-or-username>",
	Short: "Grant (or with --revoke, remove) the admin flag",
	Long: `set-admin changes a user's admin flag directly in the document store.
The change applies to the user's next admin request; existing sessions are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		b := &backends{}
		if err := openRepos(ctx, c, b); err != nil {
			return err
		}
		defer b.Close(context.Background())

		user, err := SetAdmin(ctx, b.repos.Users, args[0], !revokeAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", user.Username, user.IsAdmin)
		return nil
	},
}

func init() {
	setAdminCmd.Flags().BoolVar(&revokeAdmin, "revoke", false, "remove the admin flag instead of granting it")
	userCmd.AddCommand(setAdminCmd)
}

// SetAdmin looks the user up by email or username and stores the new admin flag.
func SetAdmin(ctx context.Context, repo users.UserRepo, identifier string, admin bool) (*users.User, error) {
	user, err := repo.GetByEmailOrUsername(ctx, identifier)
	if errors.Is(err, blogerrors.ErrUserNotFound) {
		return nil, fmt.Errorf("[cmd SetAdmin] no user matches %q: %w", identifier, err)
	}
	if err != nil {
		return nil, fmt.Errorf("[cmd SetAdmin] %w", err)
	}
	if user.IsAdmin == admin {
		return user, nil
	}

	user.IsAdmin = admin
	if err := repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("[cmd SetAdmin] %w", err)
	}
	log.Info().Str("user_id", user.ID).Bool("admin", admin).Msg("Admin flag changed")
	return user, nil
}
