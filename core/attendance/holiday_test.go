package attendance

import "testing"

func TestHolidaySetMark(t *testing.T) {
	holidays := make(HolidaySet)
	holidays.Mark("2024-03-01")
	holidays.Mark("2024-03-01") // idempotent

	if !holidays.IsHoliday("2024-03-01") {
		t.Error("IsHoliday() = false after Mark()")
	}
	if holidays.IsHoliday("2024-03-02") {
		t.Error("IsHoliday() = true for an unmarked date")
	}
	if len(holidays) != 1 {
		t.Errorf("len(holidays) = %d, want 1", len(holidays))
	}
}

func TestIsMarkable(t *testing.T) {
	sched := Schedule{
		Days: map[string][]Session{
			"Monday": {{Subject: "Maths", StartTime: "09:00", EndTime: "10:00"}},
		},
		StartDate: "2024-02-01",
	}
	holidays := HolidaySet{"2024-03-04": true}

	tests := []struct {
		name string
		day  string
		date string
		want bool
	}{
		{name: "regular class day", day: "Monday", date: "2024-03-11", want: true},
		{name: "holiday wins regardless of schedule", day: "Monday", date: "2024-03-04", want: false},
		{name: "before start date", day: "Monday", date: "2024-01-29", want: false},
		{name: "no sessions that day", day: "Tuesday", date: "2024-03-12", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarkable(sched, holidays, tt.day, tt.date); got != tt.want {
				t.Errorf("IsMarkable() = %v, want %v", got, tt.want)
			}
		})
	}

	// no start date configured: any date with sessions is markable
	open := Schedule{Days: sched.Days}
	if !IsMarkable(open, HolidaySet{}, "Monday", "1999-01-04") {
		t.Error("IsMarkable() = false with no start date configured")
	}
}
