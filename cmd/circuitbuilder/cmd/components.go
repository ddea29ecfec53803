package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List the component catalog",
	Long: `Load the component catalog and print every component with its pins.

Examples:
  circuitbuilder components
  circuitbuilder components --components ./components -v`,
	Args: cobra.NoArgs,
	RunE: runComponents,
}

func init() {
	rootCmd.AddCommand(componentsCmd)
}

func runComponents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Paths.Components)
	if err != nil {
		return err
	}

	defs := cat.Components()
	fmt.Printf("Found %d component(s) in %s\n\n", len(defs), cfg.Paths.Components)

	kind := ""
	for _, def := range defs {
		if def.Type != kind {
			kind = def.Type
			fmt.Printf("%s:\n", kind)
		}
		fmt.Printf("  %-24s %2d pins", def.Name, len(def.Pins))
		if verbose {
			names := make([]string, len(def.Pins))
			for i, p := range def.Pins {
				names[i] = fmt.Sprintf("%d:%s", i, p.Name)
			}
			fmt.Printf("  %s", strings.Join(names, " "))
		}
		fmt.Println()
	}
	return nil
}
