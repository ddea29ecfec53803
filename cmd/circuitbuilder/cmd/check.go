package cmd

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/netlist"
)

var checkCmd = &cobra.Command{
	Use:   "check <netlist-file>",
	Short: "Validate a KiCad netlist file",
	Long: `Parse a KiCad netlist and report its components and nets. The file is
also read with a generic S-expression reader to confirm it is a single
balanced expression.

Examples:
  circuitbuilder check circuits/1001/circuit_1001.net
  circuitbuilder check -v blink.net`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	generic, err := sexp.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("not a valid s-expression: %w", err)
	}
	if len(generic) != 1 || generic[0].IsLeaf() {
		return fmt.Errorf("expected a single list, got %d expression(s)", len(generic))
	}

	doc, err := netlist.DecodeString(string(data))
	if err != nil {
		return err
	}

	fmt.Printf("Netlist: %s\n", filename)
	fmt.Printf("  Version:    %s\n", doc.Version)
	if doc.Source != "" {
		fmt.Printf("  Source:     %s\n", doc.Source)
	}
	if doc.Tool != "" {
		fmt.Printf("  Tool:       %s\n", doc.Tool)
	}
	fmt.Printf("  Components: %d\n", len(doc.Components))
	fmt.Printf("  Nets:       %d\n", len(doc.Nets))
	if verbose {
		fmt.Printf("  Atoms:      %d\n", generic[0].LeafCount())
	}

	refs := make(map[string]bool, len(doc.Components))
	for _, c := range doc.Components {
		if refs[c.Ref] {
			return fmt.Errorf("duplicate reference %s", c.Ref)
		}
		refs[c.Ref] = true
		if verbose {
			fmt.Printf("    %-12s %s\n", c.Ref, c.Value)
		}
	}

	codes := make(map[int]bool, len(doc.Nets))
	for _, n := range doc.Nets {
		if codes[n.Code] {
			return fmt.Errorf("duplicate net code %d", n.Code)
		}
		codes[n.Code] = true
		for _, p := range n.Pins {
			if !refs[p.Ref] {
				return fmt.Errorf("net %s references unknown component %s", n.Name, p.Ref)
			}
		}
		if verbose {
			fmt.Printf("    %-12s %d pins\n", n.Name, len(n.Pins))
		}
	}

	fmt.Println("OK")
	return nil
}
