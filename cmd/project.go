package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskrhq/taskr/internal/domain"
)

// projectCmd groups the project subcommands.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new project",
	Long: `Create a new project. Without a Pro entitlement you can hold at
most one unfinished project at a time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		project, err := projectService.AddProject(ctx, user.ID, strings.Join(args, " "))
		if errors.Is(err, domain.ErrProjectLimit) {
			fmt.Println(err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to add project: %w", err)
		}

		fmt.Printf("Project added: %s (ID: %s)\n", project.Title, project.ID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open projects",
	Long:  `List the user's unfinished projects with their total tracked time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		projects, err := projectService.ListUnfinished(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No open projects.")
			return nil
		}

		for _, project := range projects {
			total, err := projectService.Duration(ctx, project.ID)
			if err != nil {
				return fmt.Errorf("failed to compute duration of %s: %w", project.ID, err)
			}
			fmt.Printf("%-36s  %8s  %s\n", project.ID, formatDuration(total), project.Title)
		}
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
}
