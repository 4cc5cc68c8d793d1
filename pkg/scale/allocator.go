// Package scale orchestrates creation, listing, and deletion of the synthetic
// VM fleet: namespace allocation, per-VM API calls, and progress reporting.
package scale

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

const (
	// MaxVMCount bounds one run; with 1-20 VMs per namespace the namespace
	// sequence of 999 always suffices.
	MaxVMCount    = 999
	MaxNamespaces = 999

	minPerNamespace = 1
	maxPerNamespace = 20
)

// ErrSequenceExhausted is returned when a run would need more than
// MaxNamespaces namespaces.
var ErrSequenceExhausted = errors.New("namespace sequence exhausted")

// Allocation describes one namespace handed out by the allocator.
type Allocation struct {
	Name     string
	Capacity int
	Created  bool
}

// Allocator hands out namespaces with randomly drawn capacities, reusing
// existing labeled ones before creating new ones.
type Allocator struct {
	cluster  kubernetes.Cluster
	rng      vm.Rand
	sequence int
}

// NewAllocator creates an Allocator drawing capacities from rng.
func NewAllocator(cluster kubernetes.Cluster, rng vm.Rand) *Allocator {
	return &Allocator{cluster: cluster, rng: rng}
}

// Next returns the next namespace in sequence, creating it with the
// management label when it does not exist. The capacity is drawn uniformly
// from [1,20], capped so it never exceeds remaining.
func (a *Allocator) Next(ctx context.Context, remaining int) (*Allocation, error) {
	if a.sequence >= MaxNamespaces {
		return nil, fmt.Errorf("%w: limit of %d reached", ErrSequenceExhausted, MaxNamespaces)
	}
	a.sequence++
	name := vm.NamespaceName(a.sequence)
	capacity := a.drawCapacity(remaining)

	existing, err := a.cluster.GetNamespace(ctx, name)
	if err == nil {
		// Only labeled namespaces are reused; an unlabeled name collision
		// means the namespace belongs to someone else.
		if existing.Labels[vm.LabelKey] != vm.LabelValue {
			return nil, fmt.Errorf("namespace %s exists without the management label", name)
		}
		return &Allocation{Name: name, Capacity: capacity}, nil
	}
	if !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check namespace %s: %w", name, err)
	}

	labels := map[string]string{vm.LabelKey: vm.LabelValue}
	if err := a.cluster.CreateNamespace(ctx, name, labels); err != nil {
		return nil, err
	}
	return &Allocation{Name: name, Capacity: capacity, Created: true}, nil
}

// ReleaseIfEmpty deletes the namespace when it carries the management label
// and holds no VMs or other blocking resources. A retained namespace comes
// back with the reason; only API failures surface as errors.
func (a *Allocator) ReleaseIfEmpty(ctx context.Context, namespace string) (bool, string, error) {
	ns, err := a.cluster.GetNamespace(ctx, namespace)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, "not found", nil
		}
		return false, "", fmt.Errorf("failed to get namespace %s: %w", namespace, err)
	}
	if ns.Labels[vm.LabelKey] != vm.LabelValue {
		return false, "missing management label", nil
	}

	vms, err := a.cluster.ListVMs(ctx, namespace, false)
	if err != nil {
		return false, "", err
	}
	if len(vms) > 0 {
		return false, fmt.Sprintf("%d virtual machines remain", len(vms)), nil
	}

	blocked, err := a.cluster.HasBlockingResources(ctx, namespace)
	if err != nil {
		return false, "", err
	}
	if blocked {
		return false, "other resources remain", nil
	}

	if err := a.cluster.DeleteNamespace(ctx, namespace); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (a *Allocator) drawCapacity(remaining int) int {
	max := maxPerNamespace
	if remaining < max {
		max = remaining
	}
	min := minPerNamespace
	if max < min {
		min = max
	}
	return a.rng.Intn(max-min+1) + min
}
