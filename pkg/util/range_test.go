package util

import (
	"reflect"
	"testing"
)

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{"simple range", "1-5", []int{1, 2, 3, 4, 5}, false},
		{"comma list", "1,3,5", []int{1, 3, 5}, false},
		{"mixed", "1-3,5,7-9", []int{1, 2, 3, 5, 7, 8, 9}, false},
		{"duplicates removed", "1,1,2,1-3", []int{1, 2, 3}, false},
		{"empty", "", nil, false},
		{"inverted range", "5-1", nil, true},
		{"garbage", "a-b", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpandRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandRange(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestCompactRange(t *testing.T) {
	tests := []struct {
		values []int
		want   string
	}{
		{[]int{1, 2, 3, 5, 7, 8, 9}, "1-3,5,7-9"},
		{[]int{100}, "100"},
		{[]int{3, 1, 2}, "1-3"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := CompactRange(tt.values); got != tt.want {
			t.Errorf("CompactRange(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestExpandVLANRange(t *testing.T) {
	vlans, err := ExpandVLANRange("100-102,200")
	if err != nil {
		t.Fatalf("ExpandVLANRange failed: %v", err)
	}
	want := []int{100, 101, 102, 200}
	if !reflect.DeepEqual(vlans, want) {
		t.Errorf("ExpandVLANRange = %v, want %v", vlans, want)
	}

	if _, err := ExpandVLANRange("4090-4100"); err == nil {
		t.Error("Expected error for VLAN IDs above 4094")
	}
}

func TestValidatePortRange(t *testing.T) {
	if err := ValidatePortRange("80,443,8000-8080"); err != nil {
		t.Errorf("Valid port spec rejected: %v", err)
	}
	if err := ValidatePortRange("0"); err == nil {
		t.Error("Port 0 should be invalid")
	}
	if err := ValidatePortRange("70000"); err == nil {
		t.Error("Port 70000 should be invalid")
	}
	if err := ValidatePortRange("https"); err == nil {
		t.Error("Non-numeric port should be invalid")
	}
}
