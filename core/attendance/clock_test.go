package attendance

import "testing"

func TestSessionDurationHours(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		want    float64
		wantErr error
	}{
		{name: "ninety minutes", start: "09:00", end: "10:30", want: 1.5},
		{name: "full hour", start: "14:00", end: "15:00", want: 1},
		{name: "midnight wrap", start: "23:00", end: "01:00", want: 2},
		{name: "equal times wrap a full day", start: "09:00", end: "09:00", want: 24},
		{name: "missing colon", start: "0900", end: "10:00", wantErr: ErrInvalidClockTime},
		{name: "non-numeric hour", start: "ab:00", end: "10:00", wantErr: ErrInvalidClockTime},
		{name: "non-numeric minute in end", start: "09:00", end: "10:xx", wantErr: ErrInvalidClockTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SessionDurationHours(tt.start, tt.end)
			if err != tt.wantErr {
				t.Fatalf("SessionDurationHours() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("SessionDurationHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "00:05", want: "12:05 AM"},
		{in: "09:00", want: "9:00 AM"},
		{in: "12:00", want: "12:00 PM"},
		{in: "13:30", want: "1:30 PM"},
		{in: "23:59", want: "11:59 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatClock(tt.in)
			if err != nil {
				t.Fatalf("FormatClock() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatClock() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := FormatClock("noon"); err != ErrInvalidClockTime {
		t.Errorf("FormatClock() error = %v, want %v", err, ErrInvalidClockTime)
	}
}
