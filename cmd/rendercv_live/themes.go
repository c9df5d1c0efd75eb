package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/rendercv-live/internal/config"
	"github.com/jonathan/rendercv-live/internal/themes"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Manage stored themes",
}

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			marker := ""
			if themes.IsBuiltin(name) {
				marker = " (built-in)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
		}
		return nil
	},
}

var themesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a theme's YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		content, err := store.Get(args[0])
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), content)
		return err
	},
}

var themesSaveIn string

var themesSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Store YAML as a theme, overwriting any existing one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		content, err := readInput(cmd.InOrStdin(), themesSaveIn)
		if err != nil {
			return err
		}
		if err := store.Save(args[0], content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme '%s' saved successfully.\n", args[0])
		return nil
	},
}

var themesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a custom theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme '%s' deleted successfully\n", args[0])
		return nil
	},
}

func init() {
	themesSaveCmd.Flags().StringVarP(&themesSaveIn, "in", "i", "", "Path to the YAML file (default stdin)")

	themesCmd.AddCommand(themesListCmd, themesShowCmd, themesSaveCmd, themesDeleteCmd)
	rootCmd.AddCommand(themesCmd)
}

// openStore opens the configured theme directory and seeds built-in themes.
func openStore() (*themes.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	store := themes.NewStore(cfg.ThemesDir)
	if err := store.EnsureBuiltins(); err != nil {
		return nil, fmt.Errorf("failed to seed themes: %w", err)
	}
	return store, nil
}
