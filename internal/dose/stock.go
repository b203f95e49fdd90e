package dose

// StockStatus bands the remaining-dose counter for display. Thresholds are
// fixed policy, not configuration.
type StockStatus int

const (
	StockEmpty StockStatus = iota
	StockLow
	StockMedium
	StockGood
)

func (s StockStatus) String() string {
	switch s {
	case StockEmpty:
		return "Empty"
	case StockLow:
		return "Low"
	case StockMedium:
		return "Medium"
	case StockGood:
		return "Good"
	}
	return "Unknown"
}

// StatusFor bands a remaining count: 0 empty, 1-5 low, 6-10 medium,
// above 10 good.
func StatusFor(remaining int) StockStatus {
	switch {
	case remaining <= 0:
		return StockEmpty
	case remaining <= 5:
		return StockLow
	case remaining <= 10:
		return StockMedium
	default:
		return StockGood
	}
}
