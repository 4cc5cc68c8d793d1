package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
	"github.com/rh-perfscale/cnv-scale/pkg/rbac"
	"github.com/rh-perfscale/cnv-scale/pkg/scale"
	"github.com/rh-perfscale/cnv-scale/pkg/stats"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

var deleteDryRun bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete labeled VirtualMachines and subsequently-empty namespaces",
	Long: `Delete every labeled VirtualMachine across labeled namespaces, then
delete namespaces that ended up empty. Namespaces still holding other
resources are retained and reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}
		if err := rbac.VerifyCRDExists(cmd.Context(), cluster.ApiextensionsClientset()); err != nil {
			return err
		}
		if !deleteDryRun {
			if err := rbac.VerifyPermissions(cmd.Context(), cluster.Clientset(), rbac.DeletePermissions()); err != nil {
				return err
			}
		}

		target := kubernetes.Cluster(cluster)
		if deleteDryRun {
			target = kubernetes.DryRun(target)
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		collector := stats.NewCollector()
		allocator := scale.NewAllocator(target, rng)
		orchestrator := scale.NewOrchestrator(target, allocator, nil, collector, nil)

		log.Printf("Starting VM deletion (dry-run: %v)", deleteDryRun)
		log.Printf("Label selector: %s", vm.LabelSelector())

		if err := orchestrator.Delete(cmd.Context()); err != nil {
			return err
		}
		fmt.Print(collector.RenderDelete())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteDryRun, "dry-run", false, "Simulate deletion without mutating the cluster")
}
