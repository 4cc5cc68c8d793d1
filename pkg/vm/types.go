// Package vm defines the synthetic VirtualMachine workload: naming
// conventions, randomized spec generation, and the KubeVirt manifest shape.
package vm

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// VMGVR identifies the KubeVirt VirtualMachine resource for the dynamic client.
var VMGVR = schema.GroupVersionResource{
	Group:    "kubevirt.io",
	Version:  "v1",
	Resource: "virtualmachines",
}

const (
	// LabelKey / LabelValue mark every resource this tool owns. Both VMs and
	// namespaces carry the pair, and bulk selection during list/delete goes
	// through it.
	LabelKey   = "cnv-scale-test"
	LabelValue = "synthetic-workload"

	// IndexLabelKey carries the VM's numeric sequence on the VM object.
	IndexLabelKey = "vm-index"

	VMPrefix        = "qe-virt"
	NamespacePrefix = "qe-ns"

	// ContainerDiskImage is the lightweight boot image; the VMs are never
	// started, so it only has to exist.
	ContainerDiskImage = "quay.io/kubevirt/cirros-container-disk-demo"
)

// Spec holds the randomized sizing of one synthetic VM.
type Spec struct {
	CPUCores  int `json:"cpuCores"`
	MemoryGiB int `json:"memoryGiB"`
	DiskGiB   int `json:"diskGiB"`
}

// LabelSelector returns the selector string matching managed resources.
func LabelSelector() string {
	return fmt.Sprintf("%s=%s", LabelKey, LabelValue)
}

// NamespaceName formats a namespace name like qe-ns-001.
func NamespaceName(index int) string {
	return fmt.Sprintf("%s-%03d", NamespacePrefix, index)
}
