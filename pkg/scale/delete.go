package scale

import (
	"context"
	"fmt"
	"log"
)

// Delete removes every labeled VM across labeled namespaces, then releases
// namespaces that ended up empty. Individual failures are recorded and the
// pass continues.
func (o *Orchestrator) Delete(ctx context.Context) error {
	namespaces, err := o.cluster.ListLabeledNamespaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list labeled namespaces: %w", err)
	}
	if len(namespaces) == 0 {
		log.Printf("No labeled namespaces found, nothing to delete")
		return nil
	}
	log.Printf("Found %d labeled namespaces", len(namespaces))

	for _, namespace := range namespaces {
		vms, err := o.cluster.ListVMs(ctx, namespace.Name, true)
		if err != nil {
			log.Printf("Error listing virtual machines in %s: %v", namespace.Name, err)
			continue
		}
		for _, item := range vms {
			if err := o.cluster.DeleteVM(ctx, namespace.Name, item.GetName()); err != nil {
				o.collector.VMDeleteFailed(item.GetName(), namespace.Name, err)
			} else {
				o.collector.VMDeleted()
			}
		}
	}

	for _, namespace := range namespaces {
		deleted, reason, err := o.allocator.ReleaseIfEmpty(ctx, namespace.Name)
		switch {
		case err != nil:
			o.collector.NamespaceRetained()
			log.Printf("Error releasing namespace %s: %v", namespace.Name, err)
		case deleted:
			o.collector.NamespaceDeleted()
			log.Printf("Deleted namespace %s", namespace.Name)
		default:
			o.collector.NamespaceRetained()
			log.Printf("Retained namespace %s: %s", namespace.Name, reason)
		}
	}
	return nil
}
