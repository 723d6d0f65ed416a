package main

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tcache/talloc"
	"github.com/tcache/talloc/hostsim"
)

var (
	benchSize    int
	benchCount   int
	benchWorkers int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare banked vs. unbanked central-list contention",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchSize, "size", 96, "bytes requested per allocation")
	benchCmd.Flags().IntVar(&benchCount, "count", 200000, "allocations performed per worker")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", runtime.GOMAXPROCS(0), "number of concurrent worker goroutines")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	for _, cfg := range []talloc.Config{talloc.ConfigUnbanked, talloc.ConfigBanked4} {
		elapsed := benchOne(cfg)
		total := benchWorkers * benchCount
		fmt.Printf(
			"config=%-8s workers=%d total_allocs=%d elapsed=%s rate=%.0f allocs/sec\n",
			cfg.Name, benchWorkers, total, elapsed, float64(total)/elapsed.Seconds(),
		)
	}
	return nil
}

// benchOne hammers a single size class from every worker concurrently:
// this is the scenario banking exists for, since every worker contends
// on the same class's central free list.
func benchOne(cfg talloc.Config) time.Duration {
	hooks := hostsim.New()
	state := talloc.NewState(hooks, cfg)

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < benchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			var live []uintptr
			for i := 0; i < benchCount; i++ {
				live = append(live, state.Alloc(benchSize))
				if len(live) > 32 {
					state.Dealloc(live[0])
					live = live[1:]
				}
			}
			for _, p := range live {
				state.Dealloc(p)
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}
