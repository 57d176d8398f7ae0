package services

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestValidateSchedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startDate time.Time
		deadline  time.Time
		wantErr   error
	}{
		{
			name:      "valid schedule",
			startDate: now.Add(48 * time.Hour),
			deadline:  now.Add(96 * time.Hour),
			wantErr:   nil,
		},
		{
			name:      "start exactly at minimum lead",
			startDate: now.Add(24 * time.Hour),
			deadline:  now.Add(48 * time.Hour),
			wantErr:   nil,
		},
		{
			name:      "start too soon",
			startDate: now.Add(12 * time.Hour),
			deadline:  now.Add(96 * time.Hour),
			wantErr:   ErrStartTooSoon,
		},
		{
			name:      "start in the past",
			startDate: now.Add(-time.Hour),
			deadline:  now.Add(96 * time.Hour),
			wantErr:   ErrStartTooSoon,
		},
		{
			name:      "deadline too close to start",
			startDate: now.Add(48 * time.Hour),
			deadline:  now.Add(60 * time.Hour),
			wantErr:   ErrDeadlineTooEarly,
		},
		{
			name:      "deadline before start",
			startDate: now.Add(48 * time.Hour),
			deadline:  now.Add(24 * time.Hour),
			wantErr:   ErrDeadlineTooEarly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(now, tt.startDate, tt.deadline)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSchedule() = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

func TestJoinTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected string
	}{
		{"simple tags", []string{"fitness", "running"}, "fitness,running"},
		{"preserves order", []string{"b", "a", "c"}, "b,a,c"},
		{"trims whitespace", []string{" fitness ", "running"}, "fitness,running"},
		{"drops empty entries", []string{"fitness", "", "  "}, "fitness"},
		{"empty list", []string{}, ""},
		{"nil list", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinTags(tt.tags); got != tt.expected {
				t.Errorf("JoinTags(%v) = %q, expected %q", tt.tags, got, tt.expected)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected []string
	}{
		{"simple", "fitness,running", []string{"fitness", "running"}},
		{"single", "fitness", []string{"fitness"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitTags(tt.stored); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitTags(%q) = %v, expected %v", tt.stored, got, tt.expected)
			}
		})
	}
}

func TestJoinSplitTags_RoundTrip(t *testing.T) {
	tags := []string{"fitness", "morning", "accountability"}
	if got := SplitTags(JoinTags(tags)); !reflect.DeepEqual(got, tags) {
		t.Errorf("round trip = %v, expected %v", got, tags)
	}
}
