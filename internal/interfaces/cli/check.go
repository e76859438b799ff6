package cli

import (
	"github.com/spf13/cobra"

	"github.com/disorderedmaterials/neta/internal/application/patterns"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

// NewCheckCmd creates the check command.  An invalid definition prints its
// diagnostics and exits non-zero.
func NewCheckCmd() *cobra.Command {
	var forcefieldPath string

	cmd := &cobra.Command{
		Use:     "check [flags] -- <definition>",
		Short:   "Compile a definition and print its canonical form",
		Long:    "Compile a definition and print its canonical form.\n\nDefinitions beginning with '-' must follow \"--\" so they are not read as flags.",
		Example: "  neta check -- '?C,-H(n=3)'\n  neta check -f ff.yaml -- '-&CT'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Service.Check(cmd.Context(), &patterns.CheckInput{
				Definition:     args[0],
				ForcefieldPath: forcefieldPath,
			})
			if err != nil {
				return err
			}
			if err := PrintResult(cmd, checkView{res}); err != nil {
				return err
			}
			if !res.Valid {
				return errors.New(errors.ErrorCode(res.ErrorCode), "definition is invalid")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&forcefieldPath, "forcefield", "f", "", "forcefield file resolving &type references")
	return cmd
}
