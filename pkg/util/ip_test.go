package util

import "testing"

func TestParseIPWithMask(t *testing.T) {
	ip, maskLen, err := ParseIPWithMask("192.168.1.10/24")
	if err != nil {
		t.Fatalf("ParseIPWithMask failed: %v", err)
	}
	if ip.String() != "192.168.1.10" {
		t.Errorf("Expected IP 192.168.1.10, got %s", ip.String())
	}
	if maskLen != 24 {
		t.Errorf("Expected mask length 24, got %d", maskLen)
	}

	if _, _, err := ParseIPWithMask("not-a-cidr"); err == nil {
		t.Error("Expected error for invalid CIDR")
	}
}

func TestIsValidIPv4(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"192.168.1.1", true},
		{"10.0.0.254", true},
		{"256.1.1.1", false},
		{"2001:db8::1", false},
		{"", false},
		{"abc", false},
	}
	for _, tt := range tests {
		if got := IsValidIPv4(tt.input); got != tt.valid {
			t.Errorf("IsValidIPv4(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestContainsIP(t *testing.T) {
	tests := []struct {
		cidr string
		ip   string
		want bool
	}{
		{"192.168.1.0/24", "192.168.1.100", true},
		{"192.168.1.0/24", "192.168.2.1", false},
		{"10.0.0.0/8", "10.255.255.255", true},
		{"bad", "10.0.0.1", false},
		{"10.0.0.0/8", "bad", false},
	}
	for _, tt := range tests {
		if got := ContainsIP(tt.cidr, tt.ip); got != tt.want {
			t.Errorf("ContainsIP(%q, %q) = %v, want %v", tt.cidr, tt.ip, got, tt.want)
		}
	}
}

func TestSubnetsOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"192.168.1.0/24", "192.168.1.128/25", true},
		{"192.168.1.0/24", "192.168.2.0/24", false},
		{"10.0.0.0/8", "10.20.0.0/16", true},
		{"172.16.0.0/12", "192.168.0.0/16", false},
		{"192.168.1.0/24", "192.168.1.0/24", true},
	}
	for _, tt := range tests {
		if got := SubnetsOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("SubnetsOverlap(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		// Overlap is symmetric
		if got := SubnetsOverlap(tt.b, tt.a); got != tt.want {
			t.Errorf("SubnetsOverlap(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestUsableIPs(t *testing.T) {
	t.Run("first usable", func(t *testing.T) {
		first, err := FirstUsableIP("192.168.1.0/24")
		if err != nil {
			t.Fatalf("FirstUsableIP failed: %v", err)
		}
		if first != "192.168.1.1" {
			t.Errorf("Expected 192.168.1.1, got %s", first)
		}
	})

	t.Run("last usable", func(t *testing.T) {
		last, err := LastUsableIP("192.168.1.0/24")
		if err != nil {
			t.Fatalf("LastUsableIP failed: %v", err)
		}
		if last != "192.168.1.254" {
			t.Errorf("Expected 192.168.1.254, got %s", last)
		}
	})

	t.Run("slash 31", func(t *testing.T) {
		first, err := FirstUsableIP("10.0.0.0/31")
		if err != nil {
			t.Fatalf("FirstUsableIP failed: %v", err)
		}
		if first != "10.0.0.0" {
			t.Errorf("Expected 10.0.0.0, got %s", first)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := FirstUsableIP("bad"); err == nil {
			t.Error("Expected error for invalid CIDR")
		}
	})
}

func TestCompareIPv4(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"192.168.1.10", "192.168.1.20", -1},
		{"192.168.1.20", "192.168.1.10", 1},
		{"10.0.0.1", "10.0.0.1", 0},
		{"10.0.1.0", "10.0.0.255", 1},
	}
	for _, tt := range tests {
		if got := CompareIPv4(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareIPv4(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMaskConversion(t *testing.T) {
	t.Run("mask to prefix", func(t *testing.T) {
		prefix, err := MaskToPrefix("255.255.255.0")
		if err != nil {
			t.Fatalf("MaskToPrefix failed: %v", err)
		}
		if prefix != 24 {
			t.Errorf("Expected 24, got %d", prefix)
		}
	})

	t.Run("prefix to mask", func(t *testing.T) {
		mask, err := PrefixToMask(16)
		if err != nil {
			t.Fatalf("PrefixToMask failed: %v", err)
		}
		if mask != "255.255.0.0" {
			t.Errorf("Expected 255.255.0.0, got %s", mask)
		}
	})

	t.Run("invalid mask", func(t *testing.T) {
		if _, err := MaskToPrefix("255.255.0.255"); err == nil {
			// Non-contiguous masks have Size() == (0, 0) and must fail
			t.Error("Expected error for non-contiguous mask")
		}
	})

	t.Run("invalid prefix", func(t *testing.T) {
		if _, err := PrefixToMask(33); err == nil {
			t.Error("Expected error for prefix > 32")
		}
	})
}

func TestValidateVLANID(t *testing.T) {
	if err := ValidateVLANID(100); err != nil {
		t.Errorf("VLAN 100 should be valid: %v", err)
	}
	if err := ValidateVLANID(0); err == nil {
		t.Error("VLAN 0 should be invalid")
	}
	if err := ValidateVLANID(4095); err == nil {
		t.Error("VLAN 4095 should be invalid")
	}
}

func TestValidateMTU(t *testing.T) {
	if err := ValidateMTU(1500); err != nil {
		t.Errorf("MTU 1500 should be valid: %v", err)
	}
	if err := ValidateMTU(50); err == nil {
		t.Error("MTU 50 should be invalid")
	}
	if err := ValidateMTU(10000); err == nil {
		t.Error("MTU 10000 should be invalid")
	}
}
