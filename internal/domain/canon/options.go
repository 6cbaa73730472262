package canon

// DefaultWarningCap bounds dataset warning lists.
const DefaultWarningCap = 100

// Option configures a Mapper instance.
type Option func(*Mapper)

// WithWarningCap overrides the maximum number of distinct warnings kept per
// dataset.
func WithWarningCap(limit int) Option {
	return func(m *Mapper) {
		if limit > 0 {
			m.warningCap = limit
		}
	}
}

// WithSummaryMarkers overrides the substrings that identify aggregate
// footer rows.
func WithSummaryMarkers(markers []string) Option {
	return func(m *Mapper) {
		if len(markers) > 0 {
			m.markers = markers
		}
	}
}
