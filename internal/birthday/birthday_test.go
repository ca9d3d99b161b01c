package birthday

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntilNext(t *testing.T) {
	tests := []struct {
		name     string
		birthday string
		today    time.Time
		want     int
		wantOK   bool
	}{
		{
			name:     "today exactly",
			birthday: "1990-06-15",
			today:    date(2025, 6, 15),
			want:     0,
			wantOK:   true,
		},
		{
			name:     "tomorrow",
			birthday: "1990-06-16",
			today:    date(2025, 6, 15),
			want:     1,
			wantOK:   true,
		},
		{
			name:     "already passed this year",
			birthday: "1990-06-14",
			today:    date(2025, 6, 15),
			want:     364,
			wantOK:   true,
		},
		{
			name:     "feb 29 in a non-leap year maps to mar 1",
			birthday: "1990-02-29",
			today:    date(2023, 2, 28),
			want:     1,
			wantOK:   true,
		},
		{
			name:     "feb 29 in a leap year stays feb 29",
			birthday: "1990-02-29",
			today:    date(2024, 2, 28),
			want:     1,
			wantOK:   true,
		},
		{
			name:     "feb 29 passed, next year non-leap substitutes mar 1",
			birthday: "1992-02-29",
			today:    date(2024, 3, 2),
			// Mar 2 2024 -> Mar 1 2025.
			want:   364,
			wantOK: true,
		},
		{
			name:     "mar 1 on feb 29 of a leap year",
			birthday: "1990-03-01",
			today:    date(2024, 2, 29),
			want:     1,
			wantOK:   true,
		},
		{
			name:     "empty input is unranked",
			birthday: "",
			wantOK:   false,
		},
		{
			name:     "garbage input is unranked",
			birthday: "not-a-date",
			wantOK:   false,
		},
		{
			name:     "month out of range",
			birthday: "1990-13-01",
			wantOK:   false,
		},
		{
			name:     "day names no real calendar day",
			birthday: "1990-04-31",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DaysUntilNext(tt.birthday, tt.today)
			if ok != tt.wantOK {
				t.Fatalf("DaysUntilNext(%q) ok = %v, want %v", tt.birthday, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DaysUntilNext(%q, %v) = %d, want %d", tt.birthday, tt.today, got, tt.want)
			}
		})
	}
}

// Every real month/day pair must rank within one year of any reference
// day, and rank 0 exactly when the pair equals the reference day.
func TestDaysUntilNextRange(t *testing.T) {
	todays := []time.Time{
		date(2023, 1, 1),
		date(2024, 2, 29),
		date(2025, 7, 31),
		date(2025, 12, 31),
	}
	daysIn := map[int]int{
		1: 31, 2: 29, 3: 31, 4: 30, 5: 31, 6: 30,
		7: 31, 8: 31, 9: 30, 10: 31, 11: 30, 12: 31,
	}
	for _, today := range todays {
		for m := 1; m <= 12; m++ {
			for d := 1; d <= daysIn[m]; d++ {
				bd := time.Date(2000, time.Month(m), d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
				got, ok := DaysUntilNext(bd, today)
				if !ok {
					t.Fatalf("DaysUntilNext(%q, %v) unexpectedly unranked", bd, today)
				}
				if got < 0 || got > 366 {
					t.Errorf("DaysUntilNext(%q, %v) = %d, out of [0, 366]", bd, today, got)
				}
				sameDay := m == int(today.Month()) && d == today.Day()
				if sameDay && got != 0 {
					t.Errorf("DaysUntilNext(%q, %v) = %d, want 0 on the day itself", bd, today, got)
				}
				if !sameDay && got == 0 {
					t.Errorf("DaysUntilNext(%q, %v) = 0 but today is %v", bd, today, today)
				}
			}
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1990-02-29", "2月29日"},
		{"2000-12-01", "12月1日"},
		{"1985-03-01", "3月1日"},
		{"", ""},
		{"soon", "soon"},
		{"1990-00-10", "1990-00-10"},
	}
	for _, tt := range tests {
		if got := Display(tt.in); got != tt.want {
			t.Errorf("Display(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAge(t *testing.T) {
	tests := []struct {
		name     string
		birthday string
		today    time.Time
		want     int
		wantOK   bool
	}{
		{"birthday already passed", "1990-06-14", date(2025, 6, 15), 35, true},
		{"birthday today", "1990-06-15", date(2025, 6, 15), 35, true},
		{"birthday still ahead", "1990-06-16", date(2025, 6, 15), 34, true},
		{"malformed", "06-15", date(2025, 6, 15), 0, false},
		{"born in the future", "2030-01-01", date(2025, 6, 15), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Age(tt.birthday, tt.today)
			if ok != tt.wantOK {
				t.Fatalf("Age(%q) ok = %v, want %v", tt.birthday, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Age(%q, %v) = %d, want %d", tt.birthday, tt.today, got, tt.want)
			}
		})
	}
}
