package canon

import (
	"fmt"

	"github.com/okian/gpscanon/internal/domain/registry"
	"github.com/okian/gpscanon/internal/domain/units"
	"github.com/okian/gpscanon/pkg/metrics"
)

// ratioDoubleConversionGuard is the threshold below which a cell declared as
// a percentage is assumed to already be a ratio. Vendor exports sometimes
// declare "%" on columns that were pre-divided upstream; dividing again
// would silently shrink the value a hundredfold. 1.1 rather than 1.0
// tolerates ratios slightly over unity from rounding.
const ratioDoubleConversionGuard = 1.1

// convertNumeric applies the per-dimension conversion policy to one raw
// numeric value.
func (m *Mapper) convertNumeric(raw float64, col canonColumn, warnings *warningSet) float64 {
	def := col.def

	if def.Dimension == registry.Ratio {
		return convertRatio(raw, col.sourceUnit, def.Unit)
	}

	// Playing time parsed from clock notation is already in minutes, which
	// is the metric's canonical unit.
	if isPlayingTime(def.Key) {
		return raw
	}

	src := col.sourceUnit
	if src == "" || src == def.Unit {
		return raw
	}

	converted, err := units.Convert(raw, src, def.Unit, def.Dimension)
	if err != nil {
		warnings.add(fmt.Sprintf("no-conversion:%s->%s", src, def.Unit))
		metrics.RecordConversionFallback()
		return raw
	}
	return converted
}

// convertRatio normalizes ratio metrics to [0, 1]. A declared "%" divides by
// 100 unless the value already looks like a ratio. A source unit matching
// the canonical unit passes through untouched, leaving out-of-range values
// to the plausibility check. Without a declared unit the magnitude decides:
// values in (1, 100] are treated as percentages, values in [0, 1] as
// ratios, and anything else passes through.
func convertRatio(raw float64, sourceUnit, canonicalUnit string) float64 {
	if sourceUnit == "%" {
		if raw <= ratioDoubleConversionGuard {
			return raw
		}
		return raw / 100
	}
	if sourceUnit != "" && sourceUnit == canonicalUnit {
		return raw
	}
	if raw > 1 && raw <= 100 {
		return raw / 100
	}
	return raw
}
