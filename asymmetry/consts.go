package asymmetry

const (
	// DefaultMinProminence matches the intensity scale of typical detector counts.
	DefaultMinProminence = 10000.0
	// DefaultRelativeHeight measures widths at 5% of the prominence above the base.
	DefaultRelativeHeight = 0.95

	DefaultBatchWorkers = 4
)
