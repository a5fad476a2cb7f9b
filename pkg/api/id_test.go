package api

import "testing"

func TestNewActivityID(t *testing.T) {
	id := NewActivityID()
	if !ValidateActivityID(id) {
		t.Errorf("NewActivityID() = %q, want valid activity ID", id)
	}
	if id == NewActivityID() {
		t.Error("NewActivityID() returned the same value twice")
	}
}

func TestValidateActivityID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "b5e2c6a8-3c1f-4a6e-9d5e-0f1a2b3c4d5e", true},
		{"upper case", "B5E2C6A8-3C1F-4A6E-9D5E-0F1A2B3C4D5E", true},
		{"no dashes", "b5e2c6a83c1f4a6e9d5e0f1a2b3c4d5e", false},
		{"braced", "{b5e2c6a8-3c1f-4a6e-9d5e-0f1a2b3c4d5e}", false},
		{"garbage", "not-a-guid", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateActivityID(tt.id); got != tt.want {
				t.Errorf("ValidateActivityID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
