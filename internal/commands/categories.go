package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(opts *options) *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Category operations",
	}
	categoriesCmd.AddCommand(newCategoriesListCommand(opts))
	categoriesCmd.AddCommand(newCategoriesAddCommand(opts))
	return categoriesCmd
}

func newCategoriesListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			if err := rt.view.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading categories: %w", err)
			}

			names := rt.view.CategoryNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newCategoriesAddCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category if it does not already exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			if err := rt.view.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading categories: %w", err)
			}

			if existing, ok := rt.view.ResolveCategory(args[0]); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Category %q already exists\n", existing.Name)
				return nil
			}

			name, err := rt.view.EnsureCategory(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("creating category %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %q\n", name)
			return nil
		},
	}
}
