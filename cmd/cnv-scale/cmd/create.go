package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
	"github.com/rh-perfscale/cnv-scale/pkg/rbac"
	"github.com/rh-perfscale/cnv-scale/pkg/scale"
	"github.com/rh-perfscale/cnv-scale/pkg/stats"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

const defaultVMCount = 500

var (
	createDryRun bool
	createSeed   int64
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create VirtualMachine resources distributed across namespaces",
	Long: `Create the requested number of VirtualMachines with randomized specs,
spread across qe-ns-### namespaces (1-20 VMs each). Namespaces are created
on demand and existing labeled ones are reused.

Individual VM failures are counted and reported without aborting the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count := viper.GetInt("count")
		if err := scale.ValidateCount(count); err != nil {
			return err
		}

		cluster, err := newCluster()
		if err != nil {
			return err
		}
		if err := rbac.VerifyCRDExists(cmd.Context(), cluster.ApiextensionsClientset()); err != nil {
			return err
		}
		if !createDryRun {
			if err := rbac.VerifyPermissions(cmd.Context(), cluster.Clientset(), rbac.CreatePermissions()); err != nil {
				return err
			}
		}

		target := kubernetes.Cluster(cluster)
		if createDryRun {
			target = kubernetes.DryRun(target)
		}

		seed := createSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))

		collector := stats.NewCollector()
		allocator := scale.NewAllocator(target, rng)
		generator := vm.NewGenerator(rng)
		orchestrator := scale.NewOrchestrator(target, allocator, generator, collector, logProgress)

		log.Printf("Starting VM creation: %d VirtualMachines (dry-run: %v, seed: %d)", count, createDryRun, seed)
		log.Printf("Label: %s", vm.LabelSelector())

		if err := orchestrator.Create(cmd.Context(), count); err != nil {
			return err
		}
		fmt.Print(collector.RenderCreate())
		return nil
	},
}

func logProgress(done, total, namespaces, failed int) {
	log.Printf("Created %d/%d VMs (namespaces: %d, failed: %d)", done, total, namespaces, failed)
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().IntP("count", "c", defaultVMCount, fmt.Sprintf("Number of VMs to create (1-%d)", scale.MaxVMCount))
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Simulate creation without mutating the cluster")
	createCmd.Flags().Int64Var(&createSeed, "seed", 0, "Random seed for reproducible runs (0 = time-based)")

	if err := viper.BindPFlag("count", createCmd.Flags().Lookup("count")); err != nil {
		panic(err)
	}
}
