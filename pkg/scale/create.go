package scale

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rh-perfscale/cnv-scale/pkg/kubernetes"
	"github.com/rh-perfscale/cnv-scale/pkg/stats"
	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

// progressInterval is how many VMs pass between progress notifications.
// Reporting policy only; nothing depends on the cadence.
const progressInterval = 10

// ProgressFunc receives periodic progress during a create run.
type ProgressFunc func(done, total, namespaces, failed int)

// Orchestrator drives one run: create, list, or delete.
type Orchestrator struct {
	cluster   kubernetes.Cluster
	allocator *Allocator
	generator *vm.Generator
	collector *stats.Collector
	progress  ProgressFunc
}

// NewOrchestrator wires the run's collaborators. progress may be nil.
func NewOrchestrator(cluster kubernetes.Cluster, allocator *Allocator, generator *vm.Generator, collector *stats.Collector, progress ProgressFunc) *Orchestrator {
	return &Orchestrator{
		cluster:   cluster,
		allocator: allocator,
		generator: generator,
		collector: collector,
		progress:  progress,
	}
}

// ValidateCount rejects counts outside [1,MaxVMCount] before any API call.
func ValidateCount(count int) error {
	if count < 1 || count > MaxVMCount {
		return fmt.Errorf("vm count must be between 1 and %d, got %d", MaxVMCount, count)
	}
	return nil
}

// Create distributes count VMs across namespaces. Per-VM create failures are
// recorded and the run continues; only sequence exhaustion aborts it.
func (o *Orchestrator) Create(ctx context.Context, count int) error {
	if err := ValidateCount(count); err != nil {
		return err
	}
	o.collector.Begin(count)

	remaining := count
	index := 1
	namespaces := 0

	for remaining > 0 {
		allocation, err := o.allocator.Next(ctx, remaining)
		if err != nil {
			if errors.Is(err, ErrSequenceExhausted) {
				return err
			}
			// Namespace-level API failure: skip this sequence slot and keep going.
			log.Printf("Namespace allocation failed: %v", err)
			o.collector.NamespaceCreateFailed()
			continue
		}
		namespaces++
		if allocation.Created {
			o.collector.NamespaceCreated()
			log.Printf("Created namespace %s (capacity %d)", allocation.Name, allocation.Capacity)
		} else {
			o.collector.NamespaceReused()
			log.Printf("Reusing existing namespace %s (capacity %d)", allocation.Name, allocation.Capacity)
		}

		created := 0
		for i := 0; i < allocation.Capacity && remaining > 0; i++ {
			name := o.generator.VMName(index)
			spec := o.generator.Spec()
			manifest := vm.Manifest(name, allocation.Name, spec)

			if err := o.cluster.CreateVM(ctx, manifest); err != nil {
				o.collector.VMCreateFailed(name, allocation.Name, err)
			} else {
				o.collector.VMCreated(spec)
				created++
			}

			index++
			remaining--
			done := count - remaining
			if o.progress != nil && (done%progressInterval == 0 || done == count) {
				o.progress(done, count, namespaces, o.collector.FailedCount())
			}
		}
		o.collector.NamespaceVMCount(created)
	}
	return nil
}
