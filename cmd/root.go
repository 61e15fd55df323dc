// Package cmd provides the CLI commands for the Taskr application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taskrhq/taskr/internal/adapters/storage"
	"github.com/taskrhq/taskr/internal/config"
	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/ports"
	"github.com/taskrhq/taskr/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version = "dev"

	// Global flags
	dbPath     string
	jsonOutput bool
	userFlag   string

	// Global dependencies
	storageAdapter ports.Storage
	taskService    *services.TaskService
	projectService *services.ProjectService
	userService    *services.UserService
	appConfig      *config.Config
	logger         *log.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskr",
	Short: "Taskr - track tasks, projects, and the time spent on them",
	Long: `Taskr tracks tasks and projects and accounts the time spent on them.
Start a timer on a task, stop it, finish the task, and archive it; at most
one task is running at a time. Quick-add entries may carry a liveline:deadline
date pair and a #project token.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.taskr/taskr.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Username to act as (default: config user)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Taskr\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(userCmd)
}

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	appConfig, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		appConfig = config.DefaultConfig()
	}

	level, err := log.ParseLevel(appConfig.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "taskr"})

	if dbPath == "" {
		dbPath = config.GetDBPath(appConfig)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	storageAdapter, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	taskService = services.NewTaskService(storageAdapter)
	taskService.SetLogger(logger)
	projectService = services.NewProjectService(storageAdapter)
	userService = services.NewUserService(storageAdapter)
	taskService.SetProjects(projectService)

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if storageAdapter != nil {
		return storageAdapter.Close()
	}
	return nil
}

// currentUser resolves the acting user from the --user flag or config.
func currentUser(ctx context.Context) (*domain.User, error) {
	username := userFlag
	if username == "" {
		username = appConfig.User
	}
	if username == "" {
		return nil, fmt.Errorf("no user selected: pass --user or set one with 'taskr user add'")
	}
	user, err := userService.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", username, err)
	}
	return user, nil
}

// formatDuration renders a duration as h:mm:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
