package cli

import (
	"github.com/spf13/cobra"

	"github.com/disorderedmaterials/neta/internal/application/patterns"
)

// NewMatchCmd creates the match command.
func NewMatchCmd() *cobra.Command {
	in := &patterns.MatchInput{}

	cmd := &cobra.Command{
		Use:     "match [flags] -- <definition>",
		Short:   "Evaluate a definition at every atom of the species in a file",
		Long:    "Evaluate a definition at every atom of the species in a file.\n\nDefinitions beginning with '-' must follow \"--\" so they are not read as flags.",
		Example: "  neta match -s species.yaml -- '-O(-H)'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			in.Definition = args[0]
			res, err := cliCtx.Service.Match(cmd.Context(), in)
			if err != nil {
				return err
			}
			return PrintResult(cmd, matchView{res})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.SpeciesPath, "species", "s", "", "species file (required)")
	f.StringVarP(&in.ForcefieldPath, "forcefield", "f", "", "forcefield file resolving &type references")
	f.StringVarP(&in.Species, "name", "n", "", "evaluate only the named species")
	f.BoolVar(&in.MatchedOnly, "matched-only", false, "omit atoms the definition does not match")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}
