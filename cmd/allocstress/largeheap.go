package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcache/talloc"
	"github.com/tcache/talloc/hostsim"
)

var largeheapCmd = &cobra.Command{
	Use:   "largeheap",
	Short: "Demonstrate large-heap best-fit allocation and coalescing",
	RunE:  runLargeHeapDemo,
}

func init() {
	rootCmd.AddCommand(largeheapCmd)
}

// runLargeHeapDemo allocates three adjacent large chunks, frees the
// outer two, and shows the freed space reported back as one
// contiguous span once the middle chunk is freed too.
func runLargeHeapDemo(cmd *cobra.Command, args []string) error {
	hooks := hostsim.New()
	state := talloc.NewState(hooks, talloc.ConfigUnbanked)

	const chunk = 1 << 20 // 1 MiB, well above MaxSmallSize
	a := state.Alloc(chunk)
	b := state.Alloc(chunk)
	c := state.Alloc(chunk)
	fmt.Printf("allocated three %d-byte chunks: a=%#x b=%#x c=%#x\n", chunk, a, b, c)

	state.Dealloc(a)
	state.Dealloc(c)
	fmt.Println("freed a and c; b remains live, so neither coalesces with it")

	state.Dealloc(b)
	fmt.Println("freed b; a, b, and c are now address-adjacent and eagerly coalesced into one free span")

	d := state.Alloc(3 * chunk)
	fmt.Printf("allocated a %d-byte chunk: d=%#x (reuses the coalesced span if d == a)\n", 3*chunk, d)
	return nil
}
