package scale

import (
	"context"
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
)

// VMEntry is one listed VM.
type VMEntry struct {
	Name    string `json:"name"`
	Running bool   `json:"running"`
}

// NamespaceListing groups listed VMs by namespace.
type NamespaceListing struct {
	Namespace string    `json:"namespace"`
	VMs       []VMEntry `json:"vms"`
}

// Listing is the full grouping of labeled VMs across labeled namespaces.
type Listing struct {
	Namespaces []NamespaceListing `json:"namespaces"`
	Total      int                `json:"total"`
}

// List queries all labeled VMs grouped by namespace. Read-only.
func List(ctx context.Context, cluster kubernetes.Cluster) (*Listing, error) {
	namespaces, err := cluster.ListLabeledNamespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labeled namespaces: %w", err)
	}

	listing := &Listing{}
	for _, namespace := range namespaces {
		vms, err := cluster.ListVMs(ctx, namespace.Name, true)
		if err != nil {
			return nil, err
		}
		if len(vms) == 0 {
			continue
		}
		group := NamespaceListing{Namespace: namespace.Name}
		for _, item := range vms {
			group.VMs = append(group.VMs, VMEntry{
				Name:    item.GetName(),
				Running: runningFlag(&item),
			})
		}
		sort.Slice(group.VMs, func(i, j int) bool { return group.VMs[i].Name < group.VMs[j].Name })
		listing.Namespaces = append(listing.Namespaces, group)
		listing.Total += len(group.VMs)
	}
	sort.Slice(listing.Namespaces, func(i, j int) bool {
		return listing.Namespaces[i].Namespace < listing.Namespaces[j].Namespace
	})
	return listing, nil
}

func runningFlag(item *unstructured.Unstructured) bool {
	running, found, err := unstructured.NestedBool(item.Object, "spec", "running")
	if err != nil || !found {
		return false
	}
	return running
}
