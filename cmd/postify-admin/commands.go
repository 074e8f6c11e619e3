package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/madhvi-n/postify/pkg/postify/admin"
	"github.com/madhvi-n/postify/pkg/postify/config"
)

// buildComponents loads configuration from the flags and environment and
// wires the repository. extra options are applied last.
func buildComponents(cmd *cobra.Command, extra ...config.Option) (*config.Components, error) {
	opts := []config.Option{config.WithEventLogging(false)}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithFile(path))
	}
	opts = append(opts, config.WithEnv())
	opts = append(opts, extra...)

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	return cfg.Build(cmd.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, svc admin.AdminService) (any, error)) error {
	comps, err := buildComponents(cmd)
	if err != nil {
		return err
	}
	defer comps.Close()

	result, err := fn(cmd.Context(), comps.Admin)
	if err != nil {
		return err
	}
	return printResult(cmd, result)
}

func printResult(cmd *cobra.Command, result any) error {
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := fmt.Fprintln(out, describe(result))
	return err
}

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Create the tables used by the postgres or sqlite repositories. Running it again is harmless.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := buildComponents(cmd, config.WithAutoMigrate(true))
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			comps.Close()
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return err
		},
	}
}

// NewUserCommand creates the user command group
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var req admin.ProvisionUserRequest
	create := &cobra.Command{
		Use:   "create <username> <email>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username, req.Email = args[0], args[1]
			return withAdmin(cmd, func(ctx context.Context, svc admin.AdminService) (any, error) {
				return svc.ProvisionUser(ctx, req)
			})
		},
	}
	create.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&req.LastName, "last-name", "", "last name")

	cmd.AddCommand(create)
	return cmd
}

// NewTagCommand creates the tag command group
func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, svc admin.AdminService) (any, error) {
				return svc.CreateTag(ctx, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid tag id: %w", err)
			}
			return withAdmin(cmd, func(ctx context.Context, svc admin.AdminService) (any, error) {
				return map[string]string{"deleted": id.String()}, svc.DeleteTag(ctx, id)
			})
		},
	})
	return cmd
}

// NewCategoryCommand creates the category command group
func NewCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, svc admin.AdminService) (any, error) {
				return svc.CreateCategory(ctx, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id: %w", err)
			}
			return withAdmin(cmd, func(ctx context.Context, svc admin.AdminService) (any, error) {
				return map[string]string{"deleted": id.String()}, svc.DeleteCategory(ctx, id)
			})
		},
	})
	return cmd
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entity counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, svc admin.AdminService) (any, error) {
				return svc.GetStatistics(ctx)
			})
		},
	}
}
