package talloc

// Config selects the allocator's tunable structural parameters.
type Config struct {
	// Name identifies this configuration for diagnostics/benchmarking.
	Name string

	// Banks is the number of sibling central free lists per size class.
	// 1 disables banking. Values above 1 trade peak reserved bump space
	// for reduced lock contention under concurrent access.
	Banks int
}

var (
	// ConfigUnbanked disables central-list banking entirely.
	ConfigUnbanked = Config{Name: "Unbanked", Banks: 1}

	// ConfigBanked4 uses 4-way banking, a reasonable default for
	// moderately contended workloads.
	ConfigBanked4 = Config{Name: "Banked4", Banks: 4}

	// DefaultConfig is used when no configuration is specified.
	DefaultConfig = ConfigBanked4
)
