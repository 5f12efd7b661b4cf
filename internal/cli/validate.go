package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"product-catalog/internal/catalog"
	"product-catalog/internal/validation"
)

// ValidationResult is the JSON output of the validate command.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Mode   string   `json:"mode"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "validate <file.json>",
		Short: "Check a product payload against the product rules",
		Long: `Validate a JSON product payload offline, exactly as POST (create) or
PUT (update) would. Every violation is reported; the command fails when
there is at least one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, mode, args[0])
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "create", "validation mode (create|update)")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, modeName, path string) error {
	var mode validation.Mode
	switch modeName {
	case "create":
		mode = validation.Create
	case "update":
		mode = validation.Update
	default:
		return fmt.Errorf("invalid mode %q: must be create or update", modeName)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	in, err := validation.DecodeObject(f)
	if err != nil {
		return fmt.Errorf("%s: invalid JSON: %w", path, err)
	}

	result := ValidationResult{Mode: modeName, Errors: validation.Validate(catalog.ProductRules, in, mode)}
	result.Valid = len(result.Errors) == 0

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(out, "✓ %s is a valid %s payload\n", path, modeName)
	} else {
		for _, v := range result.Errors {
			fmt.Fprintf(out, "✗ %s\n", v)
		}
	}

	if !result.Valid {
		return fmt.Errorf("%s: %d violation(s)", path, len(result.Errors))
	}
	return nil
}
