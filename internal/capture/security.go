package capture

// SecurityKind classifies an access point's authentication scheme.
type SecurityKind int

// The order matches the scanner's native auth-mode numbering.
const (
	SecurityOpen SecurityKind = iota
	SecurityWEP
	SecurityWPAPSK
	SecurityWPA2PSK
	SecurityWPAWPA2PSK
	SecurityWPA2Enterprise
	SecurityWPA3PSK
	SecurityWPA2WPA3PSK
	SecurityWAPIPSK
	SecurityUnknown
)

var securityLabels = [...]string{
	SecurityOpen:           "[OPEN]",
	SecurityWEP:            "[WEP]",
	SecurityWPAPSK:         "[WPA-PSK]",
	SecurityWPA2PSK:        "[WPA2-PSK]",
	SecurityWPAWPA2PSK:     "[WPA/WPA2-PSK]",
	SecurityWPA2Enterprise: "[WPA2-ENTERPRISE]",
	SecurityWPA3PSK:        "[WPA3-PSK]",
	SecurityWPA2WPA3PSK:    "[WPA2/WPA3-PSK]",
	SecurityWAPIPSK:        "[WAPI-PSK]",
	SecurityUnknown:        "[UNKNOWN]",
}

// SecurityKindFromAuthMode maps a native auth-mode code. Codes outside the
// known range are reported as SecurityUnknown.
func SecurityKindFromAuthMode(mode int) SecurityKind {
	if mode < int(SecurityOpen) || mode >= int(SecurityUnknown) {
		return SecurityUnknown
	}
	return SecurityKind(mode)
}

// Label returns the bracketed tag written to the record log.
func (k SecurityKind) Label() string {
	if k < SecurityOpen || k > SecurityUnknown {
		return securityLabels[SecurityUnknown]
	}
	return securityLabels[k]
}

func (k SecurityKind) String() string {
	l := k.Label()
	return l[1 : len(l)-1]
}
