package schedule

import (
	"errors"
	"testing"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "9am padded", input: "09:00", want: 540},
		{name: "9am unpadded", input: "9:00", want: 540},
		{name: "with minutes", input: "10:30", want: 630},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "surrounding spaces", input: " 8:05 ", want: 485},
		{name: "hour 24", input: "24:00", wantErr: true},
		{name: "minute 60", input: "10:60", wantErr: true},
		{name: "single minute digit", input: "10:5", wantErr: true},
		{name: "no colon", input: "1000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "signed", input: "+1:00", wantErr: true},
		{name: "three hour digits", input: "100:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrFormat) {
					t.Fatalf("ParseTime(%q) error = %v, want ErrFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTime(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		input TimeOfDay
		want  string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{1439, "23:59"},
		{-10, "00:00"},
		{1500, "23:59"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.input); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPadTime(t *testing.T) {
	if got := PadTime("9:00"); got != "09:00" {
		t.Errorf("PadTime(9:00) = %q", got)
	}
	if got := PadTime("bogus"); got != "bogus" {
		t.Errorf("PadTime(bogus) = %q", got)
	}
}

func TestDuration(t *testing.T) {
	d, err := Duration(540, 630)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 90 {
		t.Errorf("Duration = %d, want 90", d)
	}

	for _, r := range [][2]TimeOfDay{{600, 600}, {600, 540}} {
		if _, err := Duration(r[0], r[1]); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Duration(%d, %d) error = %v, want ErrInvalidRange", r[0], r[1], err)
		}
	}
}

func TestSpanInSlots(t *testing.T) {
	tests := []struct {
		name       string
		start, end TimeOfDay
		slot       int
		want       int
	}{
		{name: "exact hour", start: 540, end: 600, slot: 60, want: 1},
		{name: "ninety minutes rounds up", start: 600, end: 690, slot: 60, want: 2},
		{name: "short item still one slot", start: 540, end: 550, slot: 60, want: 1},
		{name: "half hour slots", start: 540, end: 630, slot: 30, want: 3},
		{name: "three hours", start: 480, end: 660, slot: 60, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpanInSlots(tt.start, tt.end, tt.slot)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SpanInSlots = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := SpanInSlots(540, 600, 0); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("zero slot error = %v, want ErrInvalidRange", err)
	}
	if _, err := SpanInSlots(600, 540, 60); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range error = %v, want ErrInvalidRange", err)
	}
}

func TestParseRange(t *testing.T) {
	s, e, err := ParseRange("9:00", "10:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != 540 || e != 615 {
		t.Errorf("ParseRange = %d,%d", s, e)
	}
	if _, _, err := ParseRange("9:00", "x"); !errors.Is(err, ErrFormat) {
		t.Errorf("bad end error = %v", err)
	}
	if _, _, err := ParseRange("11:00", "10:00"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed error = %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	mwf := []Day{Monday, Wednesday, Friday}
	tests := []struct {
		name string
		a, b ItemBase
		want bool
	}{
		{
			name: "same day intersecting",
			a:    ItemBase{RepeatDays: mwf, StartTime: "09:00", EndTime: "10:00"},
			b:    ItemBase{RepeatDays: []Day{Wednesday}, StartTime: "09:30", EndTime: "11:00"},
			want: true,
		},
		{
			name: "back to back",
			a:    ItemBase{RepeatDays: mwf, StartTime: "09:00", EndTime: "10:00"},
			b:    ItemBase{RepeatDays: mwf, StartTime: "10:00", EndTime: "11:00"},
			want: false,
		},
		{
			name: "different days",
			a:    ItemBase{RepeatDays: mwf, StartTime: "09:00", EndTime: "10:00"},
			b:    ItemBase{RepeatDays: []Day{Tuesday}, StartTime: "09:00", EndTime: "10:00"},
			want: false,
		},
		{
			name: "untimed",
			a:    ItemBase{RepeatDays: mwf},
			b:    ItemBase{RepeatDays: mwf, StartTime: "09:00", EndTime: "10:00"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{0: "0m", -5: "0m", 45: "45m", 60: "1h", 90: "1h30m", 1440: "24h"}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
