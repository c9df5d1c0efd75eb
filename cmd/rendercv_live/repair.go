package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/rendercv-live/internal/observability"
	"github.com/jonathan/rendercv-live/internal/repair"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Remove fields RenderCV rejects from a YAML file",
	Long:  "Runs the YAML auto-repair passes over a RenderCV document and writes the repaired text. Reads stdin when --in is omitted.",
	RunE:  runRepair,
}

var (
	repairInFile   string
	repairOutFile  string
	repairTextOnly bool
	repairVerbose  bool
	repairJSON     bool
)

func init() {
	repairCmd.Flags().StringVarP(&repairInFile, "in", "i", "", "Path to the YAML file (default stdin)")
	repairCmd.Flags().StringVarP(&repairOutFile, "out", "o", "", "Path to write the repaired YAML (default stdout)")
	repairCmd.Flags().BoolVar(&repairTextOnly, "text-only", false, "Skip the structural pass and apply only the line-oriented pass")
	repairCmd.Flags().BoolVarP(&repairVerbose, "verbose", "v", false, "Print a report of every change to stderr")
	repairCmd.Flags().BoolVar(&repairJSON, "json", false, "Print the list of changes as JSON to stderr")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	content, err := readInput(cmd.InOrStdin(), repairInFile)
	if err != nil {
		return err
	}

	var res *repair.Result
	if repairTextOnly {
		res = repair.FixText(content)
	} else {
		res = repair.Fix(content)
	}

	if repairVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRepairReport(res)
	}
	if repairJSON {
		changes := res.Changes
		if changes == nil {
			changes = []repair.Change{}
		}
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		if err := enc.Encode(changes); err != nil {
			return fmt.Errorf("failed to encode changes: %w", err)
		}
	}

	if repairOutFile == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), res.Content)
		return err
	}
	if err := os.WriteFile(repairOutFile, []byte(res.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write repaired YAML: %w", err)
	}
	return nil
}

// readInput reads path, or r when path is empty or "-".
func readInput(r io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
