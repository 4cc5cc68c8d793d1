package vm

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Manifest builds the unstructured VirtualMachine object for one synthetic VM.
//
// The VM is never started (spec.running=false) and carries two virtio disks:
// a cirros containerdisk and an emptyDisk, which allocates backing storage
// only on use.
func Manifest(name, namespace string, spec Spec) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": VMGVR.Group + "/" + VMGVR.Version,
			"kind":       "VirtualMachine",
			"metadata": map[string]interface{}{
				"name":      name,
				"namespace": namespace,
				"labels": map[string]interface{}{
					LabelKey:      LabelValue,
					IndexLabelKey: indexFromName(name),
				},
			},
			"spec": map[string]interface{}{
				"running": false,
				"template": map[string]interface{}{
					"metadata": map[string]interface{}{
						"labels": map[string]interface{}{
							"kubevirt.io/vm": name,
							LabelKey:         LabelValue,
						},
					},
					"spec": map[string]interface{}{
						"domain": map[string]interface{}{
							"cpu": map[string]interface{}{
								"cores": int64(spec.CPUCores),
							},
							"resources": map[string]interface{}{
								"requests": map[string]interface{}{
									"memory": fmt.Sprintf("%dGi", spec.MemoryGiB),
								},
							},
							"devices": map[string]interface{}{
								"disks": []interface{}{
									map[string]interface{}{
										"name": "containerdisk",
										"disk": map[string]interface{}{"bus": "virtio"},
									},
									map[string]interface{}{
										"name": "emptydisk",
										"disk": map[string]interface{}{"bus": "virtio"},
									},
								},
							},
						},
						"volumes": []interface{}{
							map[string]interface{}{
								"name": "containerdisk",
								"containerDisk": map[string]interface{}{
									"image": ContainerDiskImage,
								},
							},
							map[string]interface{}{
								"name": "emptydisk",
								"emptyDisk": map[string]interface{}{
									"capacity": fmt.Sprintf("%dGi", spec.DiskGiB),
								},
							},
						},
					},
				},
			},
		},
	}
}

// indexFromName extracts the zero-padded sequence from a qe-virt-###-xxxxx name.
func indexFromName(name string) string {
	parts := strings.Split(name, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
