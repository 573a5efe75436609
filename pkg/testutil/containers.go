// Package testutil starts throwaway backing services for integration tests.
// Every container is terminated through t.Cleanup, so callers only start it.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

const terminateTimeout = 10 * time.Second

// terminateOnCleanup stops c when the test and its subtests finish.
func terminateOnCleanup(t *testing.T, name string, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate %s container: %v", name, err)
		}
	})
}

// skipShort skips container tests under -short.
func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("container test skipped in -short mode")
	}
}
