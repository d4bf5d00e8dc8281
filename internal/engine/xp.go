package engine

const (
	// XPPerTask is the flat award for completing a task (and the penalty for
	// leaving one pending).
	XPPerTask = 5

	// XPPerLevel is the width of one level on the flat curve.
	XPPerLevel = 100
)

// XPInfo is the derived view over the running total. Level is never stored.
type XPInfo struct {
	TotalXP   int
	Level     int
	XPInLevel int
	XPToNext  int
}

// XPForTotal derives level and progress from a running total. Non-negative
// totals level up every XPPerLevel points starting at level 1; negative
// totals are level 0 and the progress fields show the climb back to zero.
func XPForTotal(total int) XPInfo {
	if total < 0 {
		return XPInfo{
			TotalXP:   total,
			Level:     0,
			XPInLevel: -total,
			XPToNext:  -total,
		}
	}
	return XPInfo{
		TotalXP:   total,
		Level:     total/XPPerLevel + 1,
		XPInLevel: total % XPPerLevel,
		XPToNext:  XPPerLevel - total%XPPerLevel,
	}
}
