package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/2beens/portfolio/internal/users"
	"github.com/2beens/portfolio/pkg"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := pkg.HashPassword(args[0])
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")
		admin, _ := cmd.Flags().GetBool("admin")
		if password == "" {
			return errors.New("--password is required")
		}

		s, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		user := &users.User{
			Name:  name,
			Email: args[0],
		}
		if user.Name == "" {
			user.Name = args[0]
		}
		if admin {
			user.Role = users.RoleAdmin
		}
		user.SetPassword(password)

		if err := s.users.Save(cmd.Context(), user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "user %s created: %s [%s]\n", user.Email, user.ID, user.Role)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, all pages unless --page is given",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		if page < 0 || size < 1 {
			return errors.New("--page must be >= 0 and --size >= 1")
		}

		s, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		return listUsers(cmd.Context(), s.users, page, size, cmd.OutOrStdout())
	},
}

type usersLister interface {
	List(ctx context.Context, page, size int) ([]users.User, int64, error)
}

// listUsers prints one page of users, or every page when page is 0.
func listUsers(ctx context.Context, repo usersLister, page, size int, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tCREATED")

	current := page
	if current == 0 {
		current = 1
	}
	var total int64
	for {
		list, count, err := repo.List(ctx, current, size)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		total = count
		for _, u := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.CreatedAt.Format("2006-01-02 15:04"))
		}
		if page != 0 || len(list) < size || int64(current*size) >= total {
			break
		}
		current++
	}

	if err := w.Flush(); err != nil {
		return err
	}
	if page != 0 {
		fmt.Fprintf(out, "page: %d, size: %d, total: %d\n", page, size, total)
		return nil
	}
	fmt.Fprintf(out, "total: %d\n", total)
	return nil
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role <email> <user|admin>",
	Short: "Change the role of a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := args[1]
		if role != users.RoleUser && role != users.RoleAdmin {
			return fmt.Errorf("invalid role: %s", role)
		}

		s, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		user, err := s.users.GetByEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get user %s: %w", args[0], err)
		}
		user.Role = role
		if err := s.users.Save(cmd.Context(), user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		if user.Role != role {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is on the admin allow-list, role stays %s\n", user.Email, user.Role)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		user, err := s.users.GetByEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get user %s: %w", args[0], err)
		}
		if err := s.users.Delete(cmd.Context(), user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", user.Email)
		return nil
	},
}

func init() {
	usersCreateCmd.Flags().String("name", "", "display name (defaults to the email)")
	usersCreateCmd.Flags().String("password", "", "plain password, hashed before it is stored")
	usersCreateCmd.Flags().Bool("admin", false, "create the user with the admin role")

	usersListCmd.Flags().Int("page", 0, "print only this page, 0 prints all pages")
	usersListCmd.Flags().Int("size", 100, "users fetched per page")

	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersSetRoleCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}
