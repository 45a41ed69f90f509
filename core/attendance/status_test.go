package attendance

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		entry     *Entry
		threshold float64
		want      Status
	}{
		{
			name:      "no entry",
			threshold: 75,
			want:      Status{Text: StatusNoData},
		},
		{
			name:      "zero total",
			entry:     &Entry{},
			threshold: 75,
			want:      Status{Text: StatusNoData},
		},
		{
			name:      "exactly on threshold has no headroom",
			entry:     &Entry{Present: 30, Total: 40},
			threshold: 75,
			want:      Status{Percent: 75, Text: StatusEarnBunks},
		},
		{
			name:      "below threshold",
			entry:     &Entry{Present: 20, Total: 40},
			threshold: 75,
			want:      Status{Percent: 50, Required: 14, Text: "Attend 14 more classes to reach 75%"},
		},
		{
			name:      "one class short",
			entry:     &Entry{Present: 8, Total: 11},
			threshold: 75,
			want:      Status{Percent: 72.73, Required: 1, Text: "Attend 1 more class to reach 75%"},
		},
		{
			name:      "bunk headroom",
			entry:     &Entry{Present: 38, Total: 40},
			threshold: 75,
			want:      Status{Percent: 95, Bunkable: 8, Text: "You can bunk 8 classes and still maintain 75%"},
		},
		{
			name:      "single bunk",
			entry:     &Entry{Present: 31, Total: 40},
			threshold: 75,
			want:      Status{Percent: 77.5, Bunkable: 1, Text: "You can bunk 1 class and still maintain 75%"},
		},
		{
			name:      "custom threshold quoted in text",
			entry:     &Entry{Present: 4, Total: 10},
			threshold: 80,
			want:      Status{Percent: 40, Required: 5, Text: "Attend 5 more classes to reach 80%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.entry, tt.threshold); got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScheduleCriteria(t *testing.T) {
	if got := (Schedule{}).Criteria(); got != DefaultCriteria {
		t.Errorf("Criteria() = %v, want default %v", got, DefaultCriteria)
	}
	if got := (Schedule{AttendanceCriteria: 60}).Criteria(); got != 60 {
		t.Errorf("Criteria() = %v, want 60", got)
	}
}
