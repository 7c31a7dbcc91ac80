//go:build unix

package world

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_UnreadableSubdirIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Open/A.swift":   "public struct A {}",
		"Locked/B.swift": "public struct B {}",
	})
	locked := filepath.Join(root, "Locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := NewScanner(DefaultScannerConfig(), nil).Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"Open/A.swift"}, paths(result.Files))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Locked")
}
