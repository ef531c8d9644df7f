package attendance

import (
	"testing"
	"time"
)

func strPtr(v string) *string { return &v }

func TestDeriveCheckState(t *testing.T) {
	today := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []Record
		want    CheckState
	}{
		{name: "no records", want: NotCheckedIn},
		{
			name:    "checked in today",
			records: []Record{{Date: "2026-05-04", CheckIn: strPtr("2026-05-04T09:00:00+00:00")}},
			want:    CheckedIn,
		},
		{
			name: "checked out today",
			records: []Record{{
				Date:     "2026-05-04",
				CheckIn:  strPtr("2026-05-04T09:00:00+00:00"),
				CheckOut: strPtr("2026-05-04T17:00:00+00:00"),
			}},
			want: NotCheckedIn,
		},
		{
			name:    "open record from yesterday only",
			records: []Record{{Date: "2026-05-03", CheckIn: strPtr("2026-05-03T09:00:00+00:00")}},
			want:    NotCheckedIn,
		},
		{
			name:    "empty check out string counts as unset",
			records: []Record{{Date: "2026-05-04", CheckIn: strPtr("2026-05-04T09:00:00+00:00"), CheckOut: strPtr("")}},
			want:    CheckedIn,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveCheckState(tc.records, today); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDeriveCheckStateUsesUTCDate(t *testing.T) {
	// 01:00 on the 5th in UTC+5 is still the 4th in UTC.
	local := time.Date(2026, 5, 5, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	records := []Record{{Date: "2026-05-04", CheckIn: strPtr("2026-05-04T18:00:00+00:00")}}
	if got := DeriveCheckState(records, local); got != CheckedIn {
		t.Fatalf("expected CHECKED_IN, got %s", got)
	}
}

func TestControlsFor(t *testing.T) {
	in := ControlsFor(CheckedIn)
	if in.CheckInEnabled || !in.CheckOutEnabled {
		t.Fatalf("unexpected controls while checked in: %+v", in)
	}
	out := ControlsFor(NotCheckedIn)
	if !out.CheckInEnabled || out.CheckOutEnabled {
		t.Fatalf("unexpected controls while not checked in: %+v", out)
	}
}

func TestRecentHoursKeepsLastSeven(t *testing.T) {
	records := make([]Record, 0, 10)
	for i := 1; i <= 10; i++ {
		hours := float64(i)
		records = append(records, Record{Date: time.Date(2026, 5, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), HoursWorked: &hours})
	}
	points := RecentHours(records)
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	if points[0].Date != "2026-05-04" || points[6].Hours != 10 {
		t.Fatalf("unexpected series: %+v", points)
	}
}
