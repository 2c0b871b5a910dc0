package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ParseIPWithMask parses an IP address with CIDR notation
// Returns the IP, mask length, and any error
func ParseIPWithMask(cidr string) (net.IP, int, error) {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid CIDR notation: %s", cidr)
	}
	ones, _ := ipNet.Mask.Size()
	return ip, ones, nil
}

// IsValidIPv4 checks if a string is a valid IPv4 address
func IsValidIPv4(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	return ip != nil && ip.To4() != nil
}

// IsValidIPv4CIDR checks if a string is a valid IPv4 CIDR notation
func IsValidIPv4CIDR(cidr string) bool {
	_, _, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	// Ensure it's IPv4
	parts := strings.Split(cidr, "/")
	ip := net.ParseIP(parts[0])
	return ip != nil && ip.To4() != nil
}

// ContainsIP reports whether the subnet (CIDR) contains the given IP.
func ContainsIP(cidr, ipStr string) bool {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	return ipNet.Contains(ip)
}

// SubnetsOverlap reports whether two IPv4 CIDR subnets overlap.
// Invalid input counts as no overlap; callers validate CIDRs separately.
func SubnetsOverlap(cidrA, cidrB string) bool {
	_, netA, errA := net.ParseCIDR(cidrA)
	_, netB, errB := net.ParseCIDR(cidrB)
	if errA != nil || errB != nil {
		return false
	}
	return netA.Contains(netB.IP) || netB.Contains(netA.IP)
}

// ComputeNetworkAddr returns the network address for a given IP and mask
func ComputeNetworkAddr(ipStr string, maskLen int) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	ip = ip.To4()
	if ip == nil {
		return ""
	}

	mask := net.CIDRMask(maskLen, 32)
	network := ip.Mask(mask)
	return network.String()
}

// ComputeBroadcastAddr returns the broadcast address for a given IP and mask
func ComputeBroadcastAddr(ipStr string, maskLen int) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	ip = ip.To4()
	if ip == nil {
		return ""
	}

	mask := net.CIDRMask(maskLen, 32)
	network := ip.Mask(mask)

	broadcast := make(net.IP, 4)
	for i := 0; i < 4; i++ {
		broadcast[i] = network[i] | ^mask[i]
	}
	return broadcast.String()
}

// FirstUsableIP returns the first host address in an IPv4 subnet.
// For /31 and /32 the network address itself is returned.
func FirstUsableIP(cidr string) (string, error) {
	ip, maskLen, err := ParseIPWithMask(cidr)
	if err != nil {
		return "", err
	}
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("not an IPv4 subnet: %s", cidr)
	}
	network := net.ParseIP(ComputeNetworkAddr(v4.String(), maskLen)).To4()
	if maskLen >= 31 {
		return network.String(), nil
	}
	first := make(net.IP, 4)
	copy(first, network)
	first[3]++
	return first.String(), nil
}

// LastUsableIP returns the last host address in an IPv4 subnet.
// For /31 and /32 the broadcast address itself is returned.
func LastUsableIP(cidr string) (string, error) {
	ip, maskLen, err := ParseIPWithMask(cidr)
	if err != nil {
		return "", err
	}
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("not an IPv4 subnet: %s", cidr)
	}
	broadcast := net.ParseIP(ComputeBroadcastAddr(v4.String(), maskLen)).To4()
	if maskLen >= 31 {
		return broadcast.String(), nil
	}
	last := make(net.IP, 4)
	copy(last, broadcast)
	last[3]--
	return last.String(), nil
}

// NextIPv4 returns the address immediately after ip, or "" if ip is not
// a valid IPv4 address. Overflow past 255.255.255.255 wraps to zero.
func NextIPv4(ipStr string) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	v4 := ip.To4()
	if v4 == nil {
		return ""
	}
	next := make(net.IP, 4)
	copy(next, v4)
	for i := 3; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return next.String()
}

// CompareIPv4 compares two IPv4 addresses numerically.
// Returns -1, 0, or 1. Invalid addresses compare as equal.
func CompareIPv4(a, b string) int {
	ipA := net.ParseIP(a)
	ipB := net.ParseIP(b)
	if ipA == nil || ipB == nil {
		return 0
	}
	ipA, ipB = ipA.To4(), ipB.To4()
	if ipA == nil || ipB == nil {
		return 0
	}
	for i := 0; i < 4; i++ {
		if ipA[i] < ipB[i] {
			return -1
		}
		if ipA[i] > ipB[i] {
			return 1
		}
	}
	return 0
}

// SplitIPMask splits a CIDR notation into IP and mask length
// Returns the IP (without mask) and mask length
func SplitIPMask(cidr string) (string, int) {
	parts := strings.Split(cidr, "/")
	if len(parts) != 2 {
		return cidr, 0 // Return as-is if no mask
	}
	maskLen, err := strconv.Atoi(parts[1])
	if err != nil {
		return parts[0], 0
	}
	return parts[0], maskLen
}

// MaskToPrefix converts a dotted-quad netmask to a prefix length.
// "255.255.255.0" -> 24
func MaskToPrefix(mask string) (int, error) {
	ip := net.ParseIP(mask)
	if ip == nil || ip.To4() == nil {
		return 0, fmt.Errorf("invalid netmask: %s", mask)
	}
	ones, bits := net.IPMask(ip.To4()).Size()
	if bits != 32 {
		return 0, fmt.Errorf("invalid netmask: %s", mask)
	}
	return ones, nil
}

// PrefixToMask converts a prefix length to a dotted-quad netmask.
// 24 -> "255.255.255.0"
func PrefixToMask(prefix int) (string, error) {
	if prefix < 0 || prefix > 32 {
		return "", fmt.Errorf("prefix length must be between 0 and 32, got %d", prefix)
	}
	mask := net.CIDRMask(prefix, 32)
	return net.IP(mask).String(), nil
}

// ValidateVLANID checks if a VLAN ID is within the usable 802.1Q range.
func ValidateVLANID(id int) error {
	if id < 1 || id > 4094 {
		return fmt.Errorf("VLAN ID must be between 1 and 4094, got %d", id)
	}
	return nil
}

// ValidateMTU checks if MTU is within valid range
func ValidateMTU(mtu int) error {
	if mtu < 68 || mtu > 9216 {
		return fmt.Errorf("MTU must be between 68 and 9216, got %d", mtu)
	}
	return nil
}
