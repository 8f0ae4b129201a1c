package cost

// Unit cost constants for module site work, in KRW.
// These are baseline values; a project's unit prices cover the modules
// themselves.
const (
	TransportCostPerModule = 1_500_000.0 // ₩ per module delivered
	CraneCostPerModule     = 800_000.0   // ₩ per module lifted
	FoundationCostPerM2    = 250_000.0   // ₩/m² of ground-floor module area
)

// Default financing terms.
const (
	DefaultInterestRate = 0.045
	DefaultTermYears    = 20
)
