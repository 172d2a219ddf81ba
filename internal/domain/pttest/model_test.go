package pttest_test

import (
	"testing"
	"time"

	"jrotc/internal/domain/pttest"
)

// TestParseTimeToSeconds covers the digit, M:SS, fallback and blank paths.
func TestParseTimeToSeconds(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2:30", 150, true},
		{"150", 150, true},
		{"", 0, false},
		{"   ", 0, false},
		{" 8:05 ", 485, true},
		{"0:07", 7, true},
		{"12:5", 725, true},
		{"95s", 95, true},
		{"abc", 0, false},
		{"1:2:3", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := pttest.ParseTimeToSeconds(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTimeToSeconds(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestFormatSecondsToTime verifies zero-padding and the empty sentinel.
func TestFormatSecondsToTime(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{150, "2:30"},
		{0, ""},
		{-5, ""},
		{7, "0:07"},
		{600, "10:00"},
	}
	for _, tt := range tests {
		if got := pttest.FormatSecondsToTime(tt.in); got != tt.want {
			t.Errorf("FormatSecondsToTime(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestTimeCodec_RoundTrip verifies parse(format(parse(s))) == parse(s) for M:SS inputs.
func TestTimeCodec_RoundTrip(t *testing.T) {
	for _, s := range []string{"0:01", "1:00", "2:30", "7:59", "10:05", "59:59", "150"} {
		first, ok := pttest.ParseTimeToSeconds(s)
		if !ok {
			t.Fatalf("parse %q failed", s)
		}
		again, ok := pttest.ParseTimeToSeconds(pttest.FormatSecondsToTime(first))
		if !ok || again != first {
			t.Errorf("round trip of %q: got %d, want %d", s, again, first)
		}
	}
}

// TestParseOptionalTime verifies blank means not taken and garbage is rejected.
func TestParseOptionalTime(t *testing.T) {
	if n, err := pttest.ParseOptionalTime(" "); err != nil || n != 0 {
		t.Errorf("blank: got (%d, %v)", n, err)
	}
	if n, err := pttest.ParseOptionalTime("1:15"); err != nil || n != 75 {
		t.Errorf("1:15: got (%d, %v)", n, err)
	}
	if _, err := pttest.ParseOptionalTime("fast"); err != pttest.ErrInvalidTimeInput {
		t.Errorf("expected ErrInvalidTimeInput, got %v", err)
	}
}

// TestTestValidation verifies field rules for a PT test.
func TestTestValidation(t *testing.T) {
	base := pttest.Test{CadetID: "c1", TestDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), PushUps: 40, SitUps: 45, MileSeconds: 480}
	tests := []struct {
		name   string
		mutate func(*pttest.Test)
		want   error
	}{
		{"valid", func(*pttest.Test) {}, nil},
		{"no cadet", func(p *pttest.Test) { p.CadetID = "" }, pttest.ErrCadetRequired},
		{"no date", func(p *pttest.Test) { p.TestDate = time.Time{} }, pttest.ErrDateRequired},
		{"negative", func(p *pttest.Test) { p.SitUps = -1 }, pttest.ErrNegativeCount},
		{"too many", func(p *pttest.Test) { p.PushUps = 501 }, pttest.ErrCountTooHigh},
		{"mile too long", func(p *pttest.Test) { p.MileSeconds = pttest.MaxSeconds + 1 }, pttest.ErrTimeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if err := p.Validate(); err != tt.want {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
	if base.MileTime() != "8:00" || base.PlankTime() != "" {
		t.Errorf("unexpected display times %q %q", base.MileTime(), base.PlankTime())
	}
}
