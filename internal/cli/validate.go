package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/questionnaire"
)

// NewValidateCmd creates the "validate" command for questionnaire authors.
func NewValidateCmd() *cobra.Command {
	var flags DefinitionFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a questionnaire and its constants for authoring errors",
		Long: `Loads both definition files and reports:
- unsupported schema_version majors
- duplicate question ids and choice keys
- malformed variable names and display conditions
- formulas and choice values that fail to parse or reference undeclared names
- variables bound by more than one question or shadowing a constant

Warnings are printed but only errors fail the command.`,
		Example: `  footprint validate --questions questions.yaml --constants constants.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, flags)
		},
	}

	addDefinitionFlags(cmd, &flags)
	return cmd
}

func runValidate(cmd *cobra.Command, flags DefinitionFlags) error {
	defs, err := loadDefinitions(cmd.Context(), flags, config.GetGlobalConfig())
	if err != nil {
		return err
	}

	issues := questionnaire.Validate(defs.Questionnaire, defs.Constants)
	for _, issue := range issues {
		cmd.Println(issue.String())
	}
	if err = issues.Err(); err != nil {
		return err
	}

	if len(issues) > 0 {
		cmd.Println()
	}
	cmd.Printf("✅ Questionnaire is valid (%d questions, %d constants)\n",
		len(defs.Questionnaire.Questions), defs.Constants.Len())
	return nil
}
