// Package intervention implements the decision-year calendar of
// spec.md §4.E: a pure function mapping a scenario's seeding/shading
// schedule parameters to a boolean-per-year vector. Grounded on the
// teacher's ZDT/DTLZ benchmark style (benchmarks/zdt1.go etc.), which
// favours small, pure, allocation-light functions with no hidden state.
package intervention

// Calendar returns a length-t boolean vector, true at every decision year
// the schedule (startYear, years, freq) selects, per spec.md §4.E:
//
//   - freq > 0: mark years startYear, startYear+freq, ... up to
//     min(startYear+years-1, t).
//   - freq == 0: mark exactly year max(startYear, 2).
//
// Years are 1-based; index i of the returned slice corresponds to year
// i+1.
func Calendar(startYear, years, freq, t int) []bool {
	out := make([]bool, t)
	if t <= 0 {
		return out
	}
	if freq > 0 {
		last := startYear + years - 1
		if last > t {
			last = t
		}
		for y := startYear; y <= last; y += freq {
			if y >= 1 && y <= t {
				out[y-1] = true
			}
		}
		return out
	}

	y := startYear
	if y < 2 {
		y = 2
	}
	if y >= 1 && y <= t {
		out[y-1] = true
	}
	return out
}

// Schedule bundles the two parallel calendars the runner needs each year:
// whether seeding and/or shading is an active decision this step.
type Schedule struct {
	Seed  []bool
	Shade []bool
}

// NewSchedule builds both calendars for one scenario's parameters.
func NewSchedule(seedStart, seedYears, seedFreq, shadeStart, shadeYears, shadeFreq, t int) Schedule {
	return Schedule{
		Seed:  Calendar(seedStart, seedYears, seedFreq, t),
		Shade: Calendar(shadeStart, shadeYears, shadeFreq, t),
	}
}

// Active reports whether year (1-based) is a seeding/shading decision
// year, respectively.
func (s Schedule) Active(year int) (seed, shade bool) {
	if year < 1 {
		return false, false
	}
	if year <= len(s.Seed) {
		seed = s.Seed[year-1]
	}
	if year <= len(s.Shade) {
		shade = s.Shade[year-1]
	}
	return
}
