package scale

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

// newFakeCluster backs a ClusterClient with fake typed and dynamic clients.
func newFakeCluster(objects ...runtime.Object) (*kubernetes.ClusterClient, *k8sfake.Clientset, *dynamicfake.FakeDynamicClient) {
	clientset := k8sfake.NewSimpleClientset(objects...)
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{vm.VMGVR: "VirtualMachineList"},
	)
	return kubernetes.NewClusterClient(clientset, dynamicClient), clientset, dynamicClient
}

// scriptedRand returns a fixed sequence of draws, clamped to the requested
// bound, then zeros. It pins down allocation decisions in tests.
type scriptedRand struct {
	values []int
	next   int
}

func (s *scriptedRand) Intn(n int) int {
	if s.next >= len(s.values) {
		return 0
	}
	v := s.values[s.next]
	s.next++
	if v >= n {
		v = n - 1
	}
	return v
}
