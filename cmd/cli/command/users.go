package command

import (
	"context"
	"fmt"
	"time"

	"yamdb/database"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// operator is the identity the CLI acts as: whoever can reach the database
// already holds superuser authority.
var operator = &models.User{Username: "operator", IsSuperuser: true}

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account with superuser and staff flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		username, _ := cmd.Flags().GetString("username")

		db, _, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		repo := repository.NewUserRepository(db)
		user, err := createSuperuser(ctx, repo, service.NewUserService(repo), email, username)
		if err != nil {
			return err
		}
		cmd.Printf("Superuser %s (%s) ready, id %s\n", user.Username, user.Email, user.ID)
		return nil
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change the role of an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		role, _ := cmd.Flags().GetString("role")

		db, _, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		users := service.NewUserService(repository.NewUserRepository(db))
		user, err := users.SetRole(ctx, operator, username, role)
		if err != nil {
			return err
		}
		cmd.Printf("User %s now has role %s\n", user.Username, user.Role)
		return nil
	},
}

// createSuperuser creates (or reuses) the account, raises its flags and grants the admin role
func createSuperuser(ctx context.Context, repo repository.UserRepository, users service.UserService, email, username string) (*models.User, error) {
	user, err := users.CreateUser(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if !user.IsSuperuser || !user.IsStaff {
		user.IsSuperuser = true
		user.IsStaff = true
		if err := repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("grant superuser: %w", err)
		}
	}
	if user.Role != models.RoleAdmin {
		if user, err = users.SetRole(ctx, operator, user.Username, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("grant admin role: %w", err)
		}
	}
	return user, nil
}

func init() {
	createSuperuserCmd.Flags().String("email", "", "Email address of the superuser")
	createSuperuserCmd.Flags().String("username", "", "Username of the superuser")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("username")

	setRoleCmd.Flags().String("username", "", "Username to change")
	setRoleCmd.Flags().String("role", "", "New role: user, moderator or admin")
	_ = setRoleCmd.MarkFlagRequired("username")
	_ = setRoleCmd.MarkFlagRequired("role")
}
