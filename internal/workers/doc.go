/*
Package workers sizes the goroutine pools used by imports and thumbnail
rebuilds.

runtime.NumCPU reports host CPUs even inside a CPU-limited container, while
GOMAXPROCS follows the cgroup limit. Count derives its answer from GOMAXPROCS
and a per-workload multiplier:

	workers.ForIO(batchSize)   // file copies within an import batch
	workers.ForMixed(8)        // thumbnail rebuilds
	workers.ForCPU(4)          // archive compression

Operators can pin the value with ASSET_LIBRARY_WORKERS. The override is still
capped by the limit argument so a batch never runs more copies than it has
files.
*/
package workers
