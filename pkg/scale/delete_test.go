package scale

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
	"github.com/rh-perfscale/cnv-scale/pkg/stats"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

func newDeleter(cluster kubernetes.Cluster) (*Orchestrator, *stats.Collector) {
	collector := stats.NewCollector()
	allocator := NewAllocator(cluster, rand.New(rand.NewSource(1)))
	return NewOrchestrator(cluster, allocator, nil, collector, nil), collector
}

func TestDelete_RemovesVMsAndEmptyNamespaces(t *testing.T) {
	cluster, clientset, _ := newFakeCluster()
	ctx := context.Background()

	creator, _ := newOrchestrator(cluster, &scriptedRand{values: []int{11, 7, 4}})
	require.NoError(t, creator.Create(ctx, 25))

	deleter, collector := newDeleter(cluster)
	require.NoError(t, deleter.Delete(ctx))
	assert.Equal(t, 25, collector.DeletedCount())
	assert.Equal(t, 0, collector.FailedCount())
	assert.Equal(t, 3, collector.NamespacesDeleted())

	namespaces, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, namespaces.Items)
}

func TestDelete_IsIdempotent(t *testing.T) {
	cluster, _, _ := newFakeCluster()
	ctx := context.Background()

	creator, _ := newOrchestrator(cluster, &scriptedRand{values: []int{9}})
	require.NoError(t, creator.Create(ctx, 10))

	first, firstStats := newDeleter(cluster)
	require.NoError(t, first.Delete(ctx))
	assert.Equal(t, 10, firstStats.DeletedCount())
	assert.Equal(t, 1, firstStats.NamespacesDeleted())

	// Nothing is left, so the second pass acts on nothing.
	second, secondStats := newDeleter(cluster)
	require.NoError(t, second.Delete(ctx))
	assert.Equal(t, 0, secondStats.DeletedCount())
	assert.Equal(t, 0, secondStats.NamespacesDeleted())
}

func TestDelete_RetainsNamespaceWithOtherResources(t *testing.T) {
	labeled := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "qe-ns-001",
			Labels: map[string]string{vm.LabelKey: vm.LabelValue},
		},
	}
	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "app-config", Namespace: "qe-ns-001"},
	}
	cluster, clientset, _ := newFakeCluster(labeled, configMap)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		generator := vm.NewGenerator(rand.New(rand.NewSource(int64(i))))
		manifest := vm.Manifest(generator.VMName(i), "qe-ns-001", vm.Spec{CPUCores: 1, MemoryGiB: 1, DiskGiB: 10})
		require.NoError(t, cluster.CreateVM(ctx, manifest))
	}

	deleter, collector := newDeleter(cluster)
	require.NoError(t, deleter.Delete(ctx))
	assert.Equal(t, 3, collector.DeletedCount())
	assert.Equal(t, 0, collector.NamespacesDeleted())

	vms, err := cluster.ListVMs(ctx, "qe-ns-001", true)
	require.NoError(t, err)
	assert.Empty(t, vms, "the labeled VMs are deleted")

	_, err = clientset.CoreV1().Namespaces().Get(ctx, "qe-ns-001", metav1.GetOptions{})
	assert.NoError(t, err, "the namespace survives because the configmap remains")
}

func TestDelete_IgnoresUnlabeledVMs(t *testing.T) {
	labeled := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "qe-ns-001",
			Labels: map[string]string{vm.LabelKey: vm.LabelValue},
		},
	}
	cluster, clientset, dynamicClient := newFakeCluster(labeled)
	ctx := context.Background()

	foreign := vm.Manifest("tenant-vm", "qe-ns-001", vm.Spec{CPUCores: 1, MemoryGiB: 1, DiskGiB: 10})
	foreign.SetLabels(map[string]string{"app": "tenant"})
	_, err := dynamicClient.Resource(vm.VMGVR).Namespace("qe-ns-001").Create(ctx, foreign, metav1.CreateOptions{})
	require.NoError(t, err)

	deleter, collector := newDeleter(cluster)
	require.NoError(t, deleter.Delete(ctx))
	assert.Equal(t, 0, collector.DeletedCount())
	assert.Equal(t, 0, collector.NamespacesDeleted())

	vms, err := cluster.ListVMs(ctx, "qe-ns-001", false)
	require.NoError(t, err)
	assert.Len(t, vms, 1, "the tenant VM is untouched")

	_, err = clientset.CoreV1().Namespaces().Get(ctx, "qe-ns-001", metav1.GetOptions{})
	assert.NoError(t, err)
}

func TestDelete_DryRunLeavesClusterUnchanged(t *testing.T) {
	real, clientset, _ := newFakeCluster()
	ctx := context.Background()

	creator, _ := newOrchestrator(real, &scriptedRand{values: []int{9}})
	require.NoError(t, creator.Create(ctx, 10))

	deleter, collector := newDeleter(kubernetes.DryRun(real))
	require.NoError(t, deleter.Delete(ctx))
	assert.Equal(t, 10, collector.DeletedCount(), "summary reflects what would have happened")

	vms, err := real.ListVMs(ctx, "qe-ns-001", true)
	require.NoError(t, err)
	assert.Len(t, vms, 10, "dry-run must not delete VMs")

	namespaces, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, namespaces.Items, 1, "dry-run must not delete namespaces")
}

func TestList_GroupsByNamespace(t *testing.T) {
	cluster, _, _ := newFakeCluster()
	ctx := context.Background()

	creator, _ := newOrchestrator(cluster, &scriptedRand{values: []int{11, 7, 4}})
	require.NoError(t, creator.Create(ctx, 25))

	listing, err := List(ctx, cluster)
	require.NoError(t, err)
	assert.Equal(t, 25, listing.Total)
	require.Len(t, listing.Namespaces, 3)
	assert.Equal(t, "qe-ns-001", listing.Namespaces[0].Namespace)
	assert.Len(t, listing.Namespaces[0].VMs, 12)
	assert.Len(t, listing.Namespaces[1].VMs, 8)
	assert.Len(t, listing.Namespaces[2].VMs, 5)

	for _, group := range listing.Namespaces {
		for _, entry := range group.VMs {
			assert.False(t, entry.Running, "synthetic VMs are never started")
		}
	}
}

func TestList_EmptyCluster(t *testing.T) {
	cluster, _, _ := newFakeCluster()

	listing, err := List(context.Background(), cluster)
	require.NoError(t, err)
	assert.Zero(t, listing.Total)
	assert.Empty(t, listing.Namespaces)
}
