package cli

import (
	"github.com/spf13/cobra"

	"github.com/disorderedmaterials/neta/internal/application/patterns"
)

// NewAssignCmd creates the assign command.
func NewAssignCmd() *cobra.Command {
	in := &patterns.AssignInput{}

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign forcefield atom types to every atom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Service.Assign(cmd.Context(), in)
			if err != nil {
				return err
			}
			return PrintResult(cmd, assignView{res})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.SpeciesPath, "species", "s", "", "species file (required)")
	f.StringVarP(&in.ForcefieldPath, "forcefield", "f", "", "forcefield file (required)")
	f.StringVarP(&in.Species, "name", "n", "", "assign only the named species")
	_ = cmd.MarkFlagRequired("species")
	_ = cmd.MarkFlagRequired("forcefield")
	return cmd
}
