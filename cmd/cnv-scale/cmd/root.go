// Package cmd defines the cnv-scale command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
)

var rootCmd = &cobra.Command{
	Use:   "cnv-scale",
	Short: "Create and manage synthetic VirtualMachines for CNV scale testing",
	Long: `cnv-scale creates batches of KubeVirt VirtualMachine resources with
randomized specs, distributed across labeled namespaces, for control-plane
load and console performance measurement.

The VMs are never started. Everything the tool creates carries the
cnv-scale-test=synthetic-workload label so a later delete can find it.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion wires the build metadata injected through ldflags.
func SetVersion(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().String("kubeconfig", "", "Path to kubeconfig (default $KUBECONFIG, then ~/.kube/config)")

	viper.SetEnvPrefix("CNV_SCALE")
	viper.AutomaticEnv()
	if err := viper.BindPFlag("kubeconfig", rootCmd.PersistentFlags().Lookup("kubeconfig")); err != nil {
		panic(err)
	}
}

func newCluster() (*kubernetes.ClusterClient, error) {
	cluster, err := kubernetes.NewCluster(viper.GetString("kubeconfig"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	return cluster, nil
}
