package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/netlist"
)

var (
	exportOutput string
	exportJSON   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <circuit-file>",
	Short: "Export a circuit as a KiCad netlist",
	Long: `Resolve every node of a circuit through the component catalog, group the
connected pins into nets and write a KiCad (version D) netlist.

The circuit file is JSON, or YAML when it ends in .yaml/.yml.

Examples:
  circuitbuilder export circuits/1001/circuit.json
  circuitbuilder export --components ./components -o blink.net blink.yaml
  circuitbuilder export --json circuit.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportJSON, "json", false,
		"print designators and nets as JSON instead of a netlist")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Paths.Components)
	if err != nil {
		return err
	}
	c, err := readCircuit(args[0])
	if err != nil {
		return err
	}

	var out []byte
	if exportJSON {
		res, err := netlist.Synthesize(cat, c.Nodes, c.Connections)
		if err != nil {
			return fmt.Errorf("failed to synthesize nets: %w", err)
		}
		if out, err = res.ExportJSON(); err != nil {
			return err
		}
		out = append(out, '\n')
	} else {
		text, err := netlist.Export(cat, c)
		if err != nil {
			return fmt.Errorf("failed to export netlist: %w", err)
		}
		out = []byte(text)
	}

	if exportOutput == "" {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(exportOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Wrote %s (%d nodes, %d connections)\n", exportOutput, len(c.Nodes), len(c.Connections))
	return nil
}
