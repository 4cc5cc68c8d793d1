package vm

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_SpecBounds(t *testing.T) {
	generator := NewGenerator(rand.New(rand.NewSource(42)))

	for i := 0; i < 500; i++ {
		spec := generator.Spec()
		assert.GreaterOrEqual(t, spec.CPUCores, 1)
		assert.LessOrEqual(t, spec.CPUCores, 4)
		assert.GreaterOrEqual(t, spec.MemoryGiB, 1)
		assert.LessOrEqual(t, spec.MemoryGiB, 8)
		assert.GreaterOrEqual(t, spec.DiskGiB, 10)
		assert.LessOrEqual(t, spec.DiskGiB, 50)
	}
}

func TestGenerator_SpecDeterministicUnderSeed(t *testing.T) {
	first := NewGenerator(rand.New(rand.NewSource(7)))
	second := NewGenerator(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Spec(), second.Spec())
	}
}

func TestGenerator_VMName(t *testing.T) {
	generator := NewGenerator(rand.New(rand.NewSource(1)))
	pattern := regexp.MustCompile(`^qe-virt-\d{3}-[a-z0-9]{5}$`)

	tests := []struct {
		index  int
		prefix string
	}{
		{1, "qe-virt-001-"},
		{42, "qe-virt-042-"},
		{999, "qe-virt-999-"},
	}
	for _, tt := range tests {
		name := generator.VMName(tt.index)
		assert.Regexp(t, pattern, name)
		assert.Contains(t, name, tt.prefix)
	}
}

func TestNamespaceName(t *testing.T) {
	assert.Equal(t, "qe-ns-001", NamespaceName(1))
	assert.Equal(t, "qe-ns-017", NamespaceName(17))
	assert.Equal(t, "qe-ns-999", NamespaceName(999))
}
