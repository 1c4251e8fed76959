package cli

import (
	"github.com/spf13/cobra"
	"github.com/xelth-com/storesync/internal/catalog"
	"gopkg.in/yaml.v3"
)

// catalogDump is the YAML document printed by the catalog command
type catalogDump struct {
	DependencyOrder []string               `yaml:"dependency_order"`
	Types           []catalog.EntitySchema `yaml:"types"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the entity catalog and its dependency order as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.NewRetail()
			if err != nil {
				return err
			}

			dump := catalogDump{DependencyOrder: cat.DependencyOrder()}
			for _, name := range cat.Types() {
				s, err := cat.Resolve(name)
				if err != nil {
					return err
				}
				dump.Types = append(dump.Types, *s)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(dump); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
