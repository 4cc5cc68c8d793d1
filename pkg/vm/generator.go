package vm

import "fmt"

// Randomization ranges for generated specs.
const (
	cpuMin    = 1
	cpuMax    = 4
	memoryMin = 1
	memoryMax = 8
	diskMin   = 10
	diskMax   = 50

	suffixLength = 5
	suffixChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Rand is the subset of math/rand.Rand the generator draws from. Injecting it
// keeps runs reproducible under a fixed seed and lets tests script exact draws.
type Rand interface {
	Intn(n int) int
}

// Generator produces randomized VM specs and names.
type Generator struct {
	rng Rand
}

// NewGenerator creates a Generator drawing from rng.
func NewGenerator(rng Rand) *Generator {
	return &Generator{rng: rng}
}

// Spec draws CPU, memory, and disk independently and uniformly from their
// closed ranges.
func (g *Generator) Spec() Spec {
	return Spec{
		CPUCores:  g.intInRange(cpuMin, cpuMax),
		MemoryGiB: g.intInRange(memoryMin, memoryMax),
		DiskGiB:   g.intInRange(diskMin, diskMax),
	}
}

// VMName formats a VM name like qe-virt-001-ab3xz, with a random
// alphanumeric suffix to keep names unique across runs.
func (g *Generator) VMName(index int) string {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = suffixChars[g.rng.Intn(len(suffixChars))]
	}
	return fmt.Sprintf("%s-%03d-%s", VMPrefix, index, suffix)
}

func (g *Generator) intInRange(min, max int) int {
	return g.rng.Intn(max-min+1) + min
}
