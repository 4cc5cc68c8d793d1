package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["create"])
	assert.True(t, names["list"])
	assert.True(t, names["delete"])
}

func TestCreateFlags(t *testing.T) {
	count := createCmd.Flags().Lookup("count")
	require.NotNil(t, count)
	assert.Equal(t, "500", count.DefValue)
	assert.Equal(t, "c", count.Shorthand)

	require.NotNil(t, createCmd.Flags().Lookup("dry-run"))
	require.NotNil(t, createCmd.Flags().Lookup("seed"))
}

func TestDeleteFlags(t *testing.T) {
	require.NotNil(t, deleteCmd.Flags().Lookup("dry-run"))
	assert.Nil(t, deleteCmd.Flags().Lookup("count"))
}

func TestListFlags(t *testing.T) {
	output := listCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "table", output.DefValue)
}

func TestGlobalFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("kubeconfig"))
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-08-29")
	assert.Contains(t, rootCmd.Version, "1.2.3")
	assert.Contains(t, rootCmd.Version, "abc1234")
}
