package main

import (
	"context"
	"fmt"

	"matesite/internal/domain"
	"matesite/internal/issues"

	"github.com/spf13/cobra"
)

// withClient builds the backend client and a request context bounded by the
// configured timeout, then runs fn.
func withClient(cmd *cobra.Command, env *cliEnv, fn func(context.Context, issues.Client, settings) error) error {
	s := currentSettings()
	client, err := env.newClient(s.baseURL, s.timeout)
	if err != nil {
		return fmt.Errorf("configure backend: %w", err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), s.timeout)
	defer cancel()
	return fn(ctx, client, s)
}

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print JSON (or set output.json in config)")
	cmd.Flags().Bool("yaml", false, "Print YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func newListCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, env, func(ctx context.Context, client issues.Client, s settings) error {
				list, err := client.List(ctx)
				if err != nil {
					return fmt.Errorf("list issues: %w", err)
				}
				return newPrinter(cmd, env, s).issues(list)
			})
		},
	}
	addFormatFlags(cmd)
	return cmd
}

func newGetCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, env, func(ctx context.Context, client issues.Client, s settings) error {
				issue, err := client.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("get issue %s: %w", args[0], err)
				}
				return newPrinter(cmd, env, s).issue(issue)
			})
		},
	}
	addFormatFlags(cmd)
	return cmd
}

func newCreateCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Example: `  matesite create --title "Login broken" --description "500 on submit"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			draft, err := domain.NewDraft(title, description)
			if err != nil {
				return err
			}
			return withClient(cmd, env, func(ctx context.Context, client issues.Client, s settings) error {
				created, err := client.Create(ctx, draft)
				if err != nil {
					return fmt.Errorf("create issue: %w", err)
				}
				return newPrinter(cmd, env, s).issue(created)
			})
		},
	}
	cmd.Flags().StringP("title", "t", "", "Issue title (required)")
	cmd.Flags().StringP("description", "d", "", "Issue description (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	addFormatFlags(cmd)
	return cmd
}

func newUpdateCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title and/or description of an issue",
		Long: `Change the title and/or description of an issue.

A field that is not given keeps its current value, which is fetched first.
With --diff the changes are printed to stderr before the updated issue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			titleSet := cmd.Flags().Changed("title")
			descriptionSet := cmd.Flags().Changed("description")
			if !titleSet && !descriptionSet {
				return fmt.Errorf("nothing to update: pass --title and/or --description")
			}
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			showDiff, _ := cmd.Flags().GetBool("diff")

			return withClient(cmd, env, func(ctx context.Context, client issues.Client, s settings) error {
				var current issues.Issue
				if !titleSet || !descriptionSet || showDiff {
					var err error
					current, err = client.Get(ctx, id)
					if err != nil {
						return fmt.Errorf("get issue %s: %w", id, err)
					}
					if !titleSet {
						title = current.Title
					}
					if !descriptionSet {
						description = current.Description
					}
				}
				draft, err := domain.NewDraft(title, description)
				if err != nil {
					return err
				}
				updated, err := client.Update(ctx, id, draft)
				if err != nil {
					return fmt.Errorf("update issue %s: %w", id, err)
				}
				if showDiff {
					writeChanges(env.stderr, current, updated, env.isTTY())
				}
				return newPrinter(cmd, env, s).issue(updated)
			})
		},
	}
	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().Bool("diff", false, "Print what changed to stderr")
	addFormatFlags(cmd)
	return cmd
}

func newDeleteCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an issue",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, env, func(ctx context.Context, client issues.Client, _ settings) error {
				result, err := client.Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("delete issue %s: %w", args[0], err)
				}
				if !result.Success {
					return fmt.Errorf("delete issue %s: backend did not confirm", args[0])
				}
				fmt.Fprintf(env.stdout, "Deleted issue %s\n", args[0])
				return nil
			})
		},
	}
}
