package attendance

import "time"

const chartDays = 7

// DeriveCheckState reads today's record: checked in means check_in set and check_out not.
// The state is recomputed from fetched records every time and never stored.
func DeriveCheckState(records []Record, today time.Time) CheckState {
	day := today.UTC().Format("2006-01-02")
	for _, record := range records {
		if record.Date != day {
			continue
		}
		if present(record.CheckIn) && !present(record.CheckOut) {
			return CheckedIn
		}
		return NotCheckedIn
	}
	return NotCheckedIn
}

func ControlsFor(state CheckState) Controls {
	return Controls{
		CheckInEnabled:  state == NotCheckedIn,
		CheckOutEnabled: state == CheckedIn,
	}
}

// RecentHours returns the hours series of the last seven records, oldest first.
func RecentHours(records []Record) []HoursPoint {
	start := 0
	if len(records) > chartDays {
		start = len(records) - chartDays
	}
	out := make([]HoursPoint, 0, len(records)-start)
	for _, record := range records[start:] {
		point := HoursPoint{Date: record.Date}
		if record.HoursWorked != nil {
			point.Hours = *record.HoursWorked
		}
		out = append(out, point)
	}
	return out
}

func present(value *string) bool {
	return value != nil && *value != ""
}
