package cli

import (
	"github.com/spf13/cobra"

	"github.com/disorderedmaterials/neta/internal/application/patterns"
)

// NewFragmentsCmd creates the fragments command.
func NewFragmentsCmd() *cobra.Command {
	in := &patterns.FragmentsInput{}

	cmd := &cobra.Command{
		Use:     "fragments [flags] -- <definition>",
		Short:   "List the distinct atom sets a definition matches, with local axes",
		Long:    "List the distinct atom sets a definition matches, with local axes.\n\nDefinitions beginning with '-' must follow \"--\" so they are not read as flags.",
		Example: "  neta fragments -s species.yaml -- '?O,#origin,-C(#x),-H(#y)'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			in.Definition = args[0]
			res, err := cliCtx.Service.Fragments(cmd.Context(), in)
			if err != nil {
				return err
			}
			return PrintResult(cmd, fragmentsView{res})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.SpeciesPath, "species", "s", "", "species file (required)")
	f.StringVarP(&in.Species, "name", "n", "", "search only the named species")
	f.BoolVar(&in.RequireOrigin, "require-origin", false, "keep only instances with a #origin group")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}
