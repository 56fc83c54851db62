// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"strconv"
	"sync"
)

// containerParallelEnv overrides how many container-backed tests may run at once.
const containerParallelEnv = "PAKEXTRACT_TEST_CONTAINER_PARALLEL"

// ContainerSemaphore limits how many tests start containers (e.g. the MinIO
// interceptor tests) at the same time. Send to acquire, receive to release:
//
//	sem := testutil.ContainerSemaphore()
//	sem <- struct{}{}
//	defer func() { <-sem }()
var ContainerSemaphore = sync.OnceValue(func() chan struct{} {
	return make(chan struct{}, containerParallelism())
})

// containerParallelism reads containerParallelEnv, falling back to min(GOMAXPROCS, 2).
func containerParallelism() int {
	if v := os.Getenv(containerParallelEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return min(runtime.GOMAXPROCS(0), 2)
}
