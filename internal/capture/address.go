// Package capture implements the wardriving capture pipeline: one scan pass
// is deduplicated against a bounded ring of seen access points, geotagged
// with the current fix, and appended to the record log.
package capture

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLen is the length of an access point hardware address.
const AddressLen = 6

// NetworkAddress is the hardware address (BSSID) of an access point radio.
type NetworkAddress [AddressLen]byte

// String renders the address as colon-separated lowercase hex.
func (a NetworkAddress) String() string {
	var b strings.Builder
	b.Grow(AddressLen*3 - 1)
	for i, octet := range a {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex.EncodeToString([]byte{octet}))
	}
	return b.String()
}

// ParseNetworkAddress parses an address of the form aa:bb:cc:dd:ee:ff. Dashes
// are accepted in place of colons, but not mixed with them.
func ParseNetworkAddress(s string) (NetworkAddress, error) {
	var a NetworkAddress
	s = strings.TrimSpace(s)
	if len(s) != AddressLen*3-1 {
		return a, fmt.Errorf("invalid network address %q: expected %d octets", s, AddressLen)
	}
	sep := s[2]
	if sep != ':' && sep != '-' {
		return a, fmt.Errorf("invalid network address %q: bad separator %q", s, sep)
	}
	for i := range a {
		if i > 0 && s[i*3-1] != sep {
			return a, fmt.Errorf("invalid network address %q: bad separator at %d", s, i*3-1)
		}
		b, err := hex.DecodeString(s[i*3 : i*3+2])
		if err != nil {
			return a, fmt.Errorf("invalid network address %q: %w", s, err)
		}
		a[i] = b[0]
	}
	return a, nil
}
