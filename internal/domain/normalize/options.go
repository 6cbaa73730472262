package normalize

// Band is an inclusive numeric range used to classify a column by its values.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Bands holds the numeric ranges the heuristic column classifier uses.
type Bands struct {
	Distance Band
	Speed    Band
	Percent  Band
}

// DefaultBands returns ranges tuned for outdoor team-sport GPS sessions.
func DefaultBands() Bands {
	return Bands{
		Distance: Band{Min: 100, Max: 50000},
		Speed:    Band{Min: 10, Max: 50},
		Percent:  Band{Min: 0, Max: 100},
	}
}

// Option configures a Normalizer instance.
type Option func(*Normalizer)

// WithBands overrides the heuristic classification ranges.
func WithBands(b Bands) Option {
	return func(n *Normalizer) {
		n.bands = b
	}
}

// WithDistanceBand overrides only the distance range.
func WithDistanceBand(min, max float64) Option {
	return func(n *Normalizer) {
		n.bands.Distance = Band{Min: min, Max: max}
	}
}

// WithSpeedBand overrides only the speed range.
func WithSpeedBand(min, max float64) Option {
	return func(n *Normalizer) {
		n.bands.Speed = Band{Min: min, Max: max}
	}
}

// WithPercentBand overrides only the percentage range.
func WithPercentBand(min, max float64) Option {
	return func(n *Normalizer) {
		n.bands.Percent = Band{Min: min, Max: max}
	}
}
