package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/rh-perfscale/cnv-scale/pkg/scale"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

// maxVMsShown caps how many VM names the table prints per namespace.
const maxVMsShown = 5

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List labeled VirtualMachines grouped by namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}

		listing, err := scale.List(cmd.Context(), cluster)
		if err != nil {
			return err
		}

		switch listOutput {
		case "yaml":
			out, err := renderYAML(listing)
			if err != nil {
				return err
			}
			fmt.Print(out)
		case "table":
			printListing(listing)
		default:
			return fmt.Errorf("unknown output format %q (want table or yaml)", listOutput)
		}
		return nil
	},
}

func renderYAML(listing *scale.Listing) (string, error) {
	out, err := yaml.Marshal(listing)
	if err != nil {
		return "", fmt.Errorf("failed to render listing: %w", err)
	}
	return string(out), nil
}

func printListing(listing *scale.Listing) {
	fmt.Printf("VirtualMachines with label %s\n\n", vm.LabelSelector())
	fmt.Printf("Total: %d VMs across %d namespaces\n\n", listing.Total, len(listing.Namespaces))

	for _, group := range listing.Namespaces {
		fmt.Printf("%s: %d VMs\n", group.Namespace, len(group.VMs))
		for i, entry := range group.VMs {
			if i == maxVMsShown {
				fmt.Printf("  ... and %d more\n", len(group.VMs)-maxVMsShown)
				break
			}
			fmt.Printf("  - %s (running: %v)\n", entry.Name, entry.Running)
		}
		fmt.Println()
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table or yaml")
}
