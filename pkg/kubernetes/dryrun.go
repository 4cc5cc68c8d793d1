package kubernetes

import (
	"context"
	"log"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// DryRun wraps a Cluster so every mutating call becomes a logged no-op.
// Reads pass through, so reuse and emptiness checks still reflect the real
// cluster state.
func DryRun(cluster Cluster) Cluster {
	return &dryRunCluster{real: cluster}
}

type dryRunCluster struct {
	real Cluster
}

func (d *dryRunCluster) GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	return d.real.GetNamespace(ctx, name)
}

func (d *dryRunCluster) CreateNamespace(_ context.Context, name string, _ map[string]string) error {
	log.Printf("[dry-run] would create namespace %s", name)
	return nil
}

func (d *dryRunCluster) DeleteNamespace(_ context.Context, name string) error {
	log.Printf("[dry-run] would delete namespace %s", name)
	return nil
}

func (d *dryRunCluster) ListLabeledNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	return d.real.ListLabeledNamespaces(ctx)
}

func (d *dryRunCluster) ListVMs(ctx context.Context, namespace string, labeledOnly bool) ([]unstructured.Unstructured, error) {
	return d.real.ListVMs(ctx, namespace, labeledOnly)
}

func (d *dryRunCluster) CreateVM(_ context.Context, manifest *unstructured.Unstructured) error {
	log.Printf("[dry-run] would create virtual machine %s/%s", manifest.GetNamespace(), manifest.GetName())
	return nil
}

func (d *dryRunCluster) DeleteVM(_ context.Context, namespace, name string) error {
	log.Printf("[dry-run] would delete virtual machine %s/%s", namespace, name)
	return nil
}

func (d *dryRunCluster) HasBlockingResources(ctx context.Context, namespace string) (bool, error) {
	return d.real.HasBlockingResources(ctx, namespace)
}
