package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskrhq/taskr/internal/config"
	"github.com/taskrhq/taskr/internal/quickadd"
)

var (
	userTZOffset int
	userProUntil string
	userSetAs    bool
)

// userCmd groups the user subcommands.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := userService.AddUser(ctx, args[0], userTZOffset)
		if err != nil {
			return fmt.Errorf("failed to add user: %w", err)
		}
		fmt.Printf("User added: %s (ID: %s)\n", user.Username, user.ID)

		if userSetAs || appConfig.User == "" {
			appConfig.User = user.Username
			if err := config.Save(appConfig); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("Now acting as %s\n", user.Username)
		}
		return nil
	},
}

var userProCmd = &cobra.Command{
	Use:   "pro [username]",
	Short: "Grant Pro entitlement",
	Long:  `Extend a user's Pro entitlement until the given day.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		until, err := quickadd.ParseDate(userProUntil, time.Now())
		if err != nil {
			return fmt.Errorf("invalid --until date: %w", err)
		}

		user, err := userService.GrantPro(ctx, args[0], until.Add(24*time.Hour))
		if err != nil {
			return fmt.Errorf("failed to grant pro: %w", err)
		}
		fmt.Printf("%s is Pro until %s\n", user.Username, user.ProUntil.Format("2006-01-02"))
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		users, err := userService.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		now := time.Now()
		for _, user := range users {
			pro := ""
			if user.IsPro(now) {
				pro = " (pro)"
			}
			fmt.Printf("%-36s  %s%s\n", user.ID, user.Username, pro)
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().IntVar(&userTZOffset, "tz-offset", 0, "Time-zone offset in seconds east of UTC")
	userAddCmd.Flags().BoolVar(&userSetAs, "use", false, "Set as the acting user in config")
	userProCmd.Flags().StringVar(&userProUntil, "until", "", "Last day of the entitlement (YYYY-MM-DD)")
	_ = userProCmd.MarkFlagRequired("until")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userProCmd)
	userCmd.AddCommand(userListCmd)
}
