package cli

import (
	"github.com/spf13/cobra"

	"github.com/disorderedmaterials/neta/internal/application/patterns"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

// NewGenerateCmd creates the generate command.  Generator flags left unset
// fall back to the generator section of the configuration.
func NewGenerateCmd() *cobra.Command {
	in := &patterns.GenerateInput{}
	var (
		depth       int
		explicitH   bool
		rootElement bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a definition describing one atom's environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("depth") || f.Changed("explicit-h") || f.Changed("root-element") {
				opts := cliCtx.Config.Generator.GenerateOptions()
				if f.Changed("depth") {
					if depth < 0 {
						return errors.InvalidParam("--depth must not be negative")
					}
					opts.MaxDepth = depth
				}
				if f.Changed("explicit-h") {
					opts.ExplicitHydrogens = explicitH
				}
				if f.Changed("root-element") {
					opts.IncludeRootElement = rootElement
				}
				in.Options = &opts
			}

			res, err := cliCtx.Service.Generate(cmd.Context(), in)
			if err != nil {
				return err
			}
			return PrintResult(cmd, generateView{res})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.SpeciesPath, "species", "s", "", "species file (required)")
	f.StringVarP(&in.Species, "name", "n", "", "species name, required when the file holds several")
	f.IntVarP(&in.Atom, "atom", "a", 0, "index of the atom to describe")
	f.IntVar(&depth, "depth", 0, "bonds away from the atom to describe")
	f.BoolVar(&explicitH, "explicit-h", false, "write hydrogens as connections instead of nh counts")
	f.BoolVar(&rootElement, "root-element", false, "start the definition with the atom's element")
	_ = cmd.MarkFlagRequired("species")
	_ = cmd.MarkFlagRequired("atom")
	return cmd
}
