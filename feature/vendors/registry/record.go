package registry

import (
	"fmt"
	"net"
)

// OUIMask keeps the organizationally unique identifier (top 24 bits) of a
// 48-bit hardware address and zeroes the device-specific remainder.
const OUIMask uint64 = 0xFFFFFF000000

// Prefix is a 48-bit hardware address value whose top 24 bits identify the
// registering organization. The low 24 bits are always zero.
type Prefix uint64

// PrefixOf derives the registry key for a hardware address. Addresses
// shorter than 3 bytes carry no OUI and report ok=false.
func PrefixOf(addr net.HardwareAddr) (Prefix, bool) {
	if len(addr) < 3 {
		return 0, false
	}
	p := uint64(addr[0])<<40 | uint64(addr[1])<<32 | uint64(addr[2])<<24
	return Prefix(p), true
}

// HardwareAddr returns the prefix as a 6-byte hardware address with the
// low 24 bits zeroed.
func (p Prefix) HardwareAddr() net.HardwareAddr {
	v := uint64(p)
	return net.HardwareAddr{
		byte(v >> 40), byte(v >> 32), byte(v >> 24),
		0, 0, 0,
	}
}

// String renders the prefix in the registry's hyphenated form, e.g. "00-22-72".
func (p Prefix) String() string {
	v := uint64(p)
	return fmt.Sprintf("%02X-%02X-%02X", byte(v>>40), byte(v>>32), byte(v>>24))
}

// VendorRecord is one registered vendor assignment. Immutable once built.
type VendorRecord struct {
	// Prefix is the assigned OUI, low 24 bits zero.
	Prefix Prefix
	// Organization is the registered company name.
	Organization string
	// Address is the company's postal address, lines joined with "\n".
	Address string
}
