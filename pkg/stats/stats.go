// Package stats accumulates run statistics and renders the end-of-run summary.
// Collection is decoupled from rendering so the orchestration layer can be
// tested without capturing console output.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

// maxFailureDetail caps how many per-VM failures the summary lists verbatim.
const maxFailureDetail = 10

// Failure records one per-VM API error for the summary.
type Failure struct {
	Name      string
	Namespace string
	Reason    string
}

// Collector accumulates counters and running min/max/sum values for one run.
type Collector struct {
	start     time.Time
	requested int

	created      int
	createFailed int
	deleted      int
	deleteFailed int

	namespacesCreated      int
	namespacesReused       int
	namespacesCreateFailed int
	namespacesDeleted      int
	namespacesRetained     int

	cpu          minMax
	memory       minMax
	disk         minMax
	perNamespace minMax

	failures []Failure
}

// NewCollector starts a collector; the run duration is measured from here.
func NewCollector() *Collector {
	return &Collector{start: time.Now()}
}

// Begin records how many VMs the run was asked for.
func (c *Collector) Begin(requested int) {
	c.requested = requested
}

func (c *Collector) VMCreated(spec vm.Spec) {
	c.created++
	c.cpu.observe(spec.CPUCores)
	c.memory.observe(spec.MemoryGiB)
	c.disk.observe(spec.DiskGiB)
}

func (c *Collector) VMCreateFailed(name, namespace string, err error) {
	c.createFailed++
	c.failures = append(c.failures, Failure{Name: name, Namespace: namespace, Reason: err.Error()})
}

func (c *Collector) VMDeleted() {
	c.deleted++
}

func (c *Collector) VMDeleteFailed(name, namespace string, err error) {
	c.deleteFailed++
	c.failures = append(c.failures, Failure{Name: name, Namespace: namespace, Reason: err.Error()})
}

func (c *Collector) NamespaceCreated()      { c.namespacesCreated++ }
func (c *Collector) NamespaceReused()       { c.namespacesReused++ }
func (c *Collector) NamespaceCreateFailed() { c.namespacesCreateFailed++ }
func (c *Collector) NamespaceDeleted()      { c.namespacesDeleted++ }
func (c *Collector) NamespaceRetained()     { c.namespacesRetained++ }

// NamespaceVMCount records how many VMs ended up in one namespace.
func (c *Collector) NamespaceVMCount(count int) {
	c.perNamespace.observe(count)
}

func (c *Collector) CreatedCount() int { return c.created }
func (c *Collector) DeletedCount() int { return c.deleted }

// FailedCount returns the total per-VM failures recorded so far.
func (c *Collector) FailedCount() int {
	return c.createFailed + c.deleteFailed
}

func (c *Collector) NamespacesDeleted() int { return c.namespacesDeleted }

// RenderCreate produces the human-readable creation summary.
func (c *Collector) RenderCreate() string {
	duration := time.Since(c.start)
	var b strings.Builder

	writeRule(&b)
	b.WriteString("VM Creation Summary\n")
	writeRule(&b)
	fmt.Fprintf(&b, "Total requested: %d\n", c.requested)
	fmt.Fprintf(&b, "Successfully created: %d\n", c.created)
	fmt.Fprintf(&b, "Failed: %d\n", c.createFailed)
	fmt.Fprintf(&b, "Duration: %.2f seconds\n", duration.Seconds())
	if c.created > 0 {
		fmt.Fprintf(&b, "Average: %.2f seconds per VM\n", duration.Seconds()/float64(c.created))
	}

	b.WriteString("\nNamespace Statistics:\n")
	fmt.Fprintf(&b, "  Total namespaces used: %d\n", c.namespacesCreated+c.namespacesReused)
	fmt.Fprintf(&b, "  Newly created: %d\n", c.namespacesCreated)
	fmt.Fprintf(&b, "  Reused existing: %d\n", c.namespacesReused)
	if c.namespacesCreateFailed > 0 {
		fmt.Fprintf(&b, "  Creation failures: %d\n", c.namespacesCreateFailed)
	}

	if c.created > 0 {
		b.WriteString("\nRandomized Specifications:\n")
		fmt.Fprintf(&b, "  CPU cores:   min=%d, max=%d, avg=%.1f\n", c.cpu.min, c.cpu.max, c.cpu.avg())
		fmt.Fprintf(&b, "  Memory (Gi): min=%d, max=%d, avg=%.1f\n", c.memory.min, c.memory.max, c.memory.avg())
		fmt.Fprintf(&b, "  Disk (Gi):   min=%d, max=%d, avg=%.1f\n", c.disk.min, c.disk.max, c.disk.avg())

		b.WriteString("\nVMs per Namespace:\n")
		fmt.Fprintf(&b, "  min=%d, max=%d, avg=%.1f\n", c.perNamespace.min, c.perNamespace.max, c.perNamespace.avg())
	}

	c.writeFailures(&b)
	writeRule(&b)
	return b.String()
}

// RenderDelete produces the human-readable deletion summary.
func (c *Collector) RenderDelete() string {
	duration := time.Since(c.start)
	var b strings.Builder

	writeRule(&b)
	b.WriteString("Deletion Summary\n")
	writeRule(&b)
	fmt.Fprintf(&b, "Total VMs deleted: %d\n", c.deleted)
	fmt.Fprintf(&b, "Failed VM deletions: %d\n", c.deleteFailed)
	fmt.Fprintf(&b, "Namespaces deleted: %d\n", c.namespacesDeleted)
	fmt.Fprintf(&b, "Namespaces retained: %d\n", c.namespacesRetained)
	fmt.Fprintf(&b, "Duration: %.2f seconds\n", duration.Seconds())
	if c.deleted > 0 {
		fmt.Fprintf(&b, "Average: %.2f seconds per VM\n", duration.Seconds()/float64(c.deleted))
	}

	c.writeFailures(&b)
	writeRule(&b)
	return b.String()
}

func (c *Collector) writeFailures(b *strings.Builder) {
	if len(c.failures) == 0 {
		return
	}
	b.WriteString("\nFailures:\n")
	for i, failure := range c.failures {
		if i == maxFailureDetail {
			fmt.Fprintf(b, "  ... and %d more\n", len(c.failures)-maxFailureDetail)
			break
		}
		fmt.Fprintf(b, "  - %s in %s: %s\n", failure.Name, failure.Namespace, failure.Reason)
	}
}

func writeRule(b *strings.Builder) {
	b.WriteString(strings.Repeat("=", 80))
	b.WriteByte('\n')
}

// minMax tracks a running min/max/sum over observed integers.
type minMax struct {
	min   int
	max   int
	sum   int
	count int
}

func (m *minMax) observe(v int) {
	if m.count == 0 || v < m.min {
		m.min = v
	}
	if m.count == 0 || v > m.max {
		m.max = v
	}
	m.sum += v
	m.count++
}

func (m *minMax) avg() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.count)
}
