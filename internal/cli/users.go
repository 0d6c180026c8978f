package cli

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	addFirstName string
	addLastName  string
	addEmail     string
	addAdmin     bool
	listAdmins   bool
	deleteYes    bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long:  "Manage user accounts directly in the database",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a new user",
	Long:  "Add a new user. Use --admin to bootstrap the first administrator.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		exists, err := services.UserRepo.Exists(cmd.Context(), username)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if exists {
			return fmt.Errorf("user already exists: %s", username)
		}

		password, err := promptPassword()
		if err != nil {
			return err
		}

		user, err := services.UserService.Register(cmd.Context(), service.RegisterInput{
			Username:  username,
			Password:  password,
			FirstName: addFirstName,
			LastName:  addLastName,
			Email:     addEmail,
			IsAdmin:   addAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		role := "user"
		if user.IsAdmin {
			role = "admin"
		}
		fmt.Printf("User '%s' created successfully (%s)\n", username, role)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		// Confirm deletion
		if !deleteYes {
			fmt.Printf("Are you sure you want to delete user '%s'? (yes/no): ", username)
			var confirm string
			fmt.Scanln(&confirm)
			if confirm != "yes" {
				fmt.Println("Cancelled")
				return nil
			}
		}

		if err := services.UserService.DeleteUser(cmd.Context(), username); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		fmt.Printf("User '%s' deleted successfully\n", username)
		return nil
	},
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant admin privileges to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		// isAdmin is not updatable through the API, so go to the repository.
		_, err = services.UserRepo.Update(cmd.Context(), username, []repository.UpdateField{
			{Name: "isAdmin", Value: true},
		})
		if err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}

		fmt.Printf("User '%s' is now an admin\n", username)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		var filter repository.UserFilter
		if listAdmins {
			isAdmin := true
			filter.IsAdmin = &isAdmin
		}

		users, err := services.UserService.ListUsers(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if len(users) == 0 {
			fmt.Println("No users found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL\tADMIN\tAPPLICATIONS")
		for _, user := range users {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%d\n",
				user.Username,
				user.FirstName,
				user.LastName,
				user.Email,
				strconv.FormatBool(user.IsAdmin),
				len(user.Jobs),
			)
		}
		w.Flush()

		return nil
	},
}

func promptPassword() (string, error) {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirmPassword) {
		return "", fmt.Errorf("passwords do not match")
	}

	if len(password) < 5 || len(password) > 20 {
		return "", fmt.Errorf("password must be between 5 and 20 characters")
	}

	return string(password), nil
}

func init() {
	usersAddCmd.Flags().StringVar(&addFirstName, "first-name", "", "first name")
	usersAddCmd.Flags().StringVar(&addLastName, "last-name", "", "last name")
	usersAddCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	usersAddCmd.Flags().BoolVar(&addAdmin, "admin", false, "create the user as an admin")
	_ = usersAddCmd.MarkFlagRequired("first-name")
	_ = usersAddCmd.MarkFlagRequired("last-name")
	_ = usersAddCmd.MarkFlagRequired("email")

	usersListCmd.Flags().BoolVar(&listAdmins, "admins", false, "only list admins")
	usersDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersPromoteCmd)
	usersCmd.AddCommand(usersListCmd)
}
