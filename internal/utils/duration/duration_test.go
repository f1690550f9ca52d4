package duration

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr error
	}{
		{input: "", wantErr: ErrInvalidFormat},
		{input: "   ", wantErr: ErrInvalidFormat},
		{input: "-1d", wantErr: ErrInvalidFormat},
		{input: "1x", wantErr: ErrInvalidUnit},
		{input: "3 parsecs", wantErr: ErrInvalidUnit},
		{input: "99999999999d", wantErr: ErrInvalidNumber},
		{input: "!!", wantErr: ErrInvalidFormat},
		{input: "0d", want: 0},
		{input: "12h", want: 12 * time.Hour},
		{input: "2hours", want: 2 * time.Hour},
		{input: "1d", want: 24 * time.Hour},
		{input: "30 days", want: 30 * 24 * time.Hour},
		{input: "2W", want: 14 * 24 * time.Hour},
		{input: "1m", want: 30 * 24 * time.Hour},
		{input: "6months", want: 180 * 24 * time.Hour},
		{input: "1y", want: 365 * 24 * time.Hour},
		{input: "1h30m", want: 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
