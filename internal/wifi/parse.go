package wifi

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/banshee-data/wardrive/internal/capture"
)

// AuthMode is the scanner's native security classification. The numbering
// matches capture.SecurityKindFromAuthMode.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWEP
	AuthWPAPSK
	AuthWPA2PSK
	AuthWPAWPA2PSK
	AuthWPA2Enterprise
	AuthWPA3PSK
	AuthWPA2WPA3PSK
	AuthWAPIPSK
	AuthUnknown
)

// bssBlock accumulates the fields of one "BSS" section of iw output.
type bssBlock struct {
	addr    capture.NetworkAddress
	ssid    string
	signal  int
	freq    int
	channel int

	privacy bool
	section string
	rsn     suites
	wpa     suites
	wapi    bool
}

type suites struct {
	present bool
	psk     bool
	sae     bool
	eap     bool
}

// ParseScan parses the output of `iw dev <iface> scan` into sightings, in the
// order the BSS blocks appear. Blocks with an unparsable address are skipped.
func ParseScan(out []byte) []capture.Sighting {
	var (
		sightings []capture.Sighting
		cur       *bssBlock
	)
	flush := func() {
		if cur != nil {
			sightings = append(sightings, cur.sighting())
			cur = nil
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if strings.HasPrefix(line, "BSS ") {
			flush()
			addr, err := capture.ParseNetworkAddress(bssAddress(line[len("BSS "):]))
			if err != nil {
				continue
			}
			cur = &bssBlock{addr: addr}
			continue
		}
		if cur == nil {
			continue
		}
		cur.parseLine(line)
	}
	flush()
	return sightings
}

// bssAddress strips the "(on wlan0) -- associated" suffix from a BSS line.
func bssAddress(s string) string {
	if i := strings.IndexAny(s, "( "); i >= 0 {
		return s[:i]
	}
	return s
}

func (b *bssBlock) parseLine(line string) {
	nested := strings.HasPrefix(line, "\t\t")
	text := strings.TrimSpace(line)
	if !nested {
		b.section = ""
		if i := strings.IndexByte(text, ':'); i > 0 {
			b.section = text[:i]
		}
	}

	switch {
	case strings.HasPrefix(text, "SSID: "):
		b.ssid = unescapeSSID(strings.TrimPrefix(text, "SSID: "))
	case text == "SSID:":
		b.ssid = ""
	case strings.HasPrefix(text, "signal: "):
		fields := strings.Fields(strings.TrimPrefix(text, "signal: "))
		if len(fields) > 0 {
			if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
				b.signal = int(v)
			}
		}
	case strings.HasPrefix(text, "freq: "):
		if v, err := strconv.ParseFloat(strings.TrimPrefix(text, "freq: "), 64); err == nil {
			b.freq = int(v)
		}
	case strings.HasPrefix(text, "DS Parameter set: channel "):
		if v, err := strconv.Atoi(strings.TrimPrefix(text, "DS Parameter set: channel ")); err == nil {
			b.channel = v
		}
	case strings.HasPrefix(text, "* primary channel: "):
		if b.channel == 0 {
			if v, err := strconv.Atoi(strings.TrimPrefix(text, "* primary channel: ")); err == nil {
				b.channel = v
			}
		}
	case strings.HasPrefix(text, "capability: "):
		b.privacy = strings.Contains(text, "Privacy")
	}

	switch b.section {
	case "RSN":
		b.rsn.present = true
		b.rsn.parse(text)
	case "WPA":
		b.wpa.present = true
		b.wpa.parse(text)
	case "WAPI":
		b.wapi = true
	}
}

func (s *suites) parse(text string) {
	i := strings.Index(text, "Authentication suites:")
	if i < 0 {
		return
	}
	list := text[i+len("Authentication suites:"):]
	if strings.Contains(list, "PSK") {
		s.psk = true
	}
	if strings.Contains(list, "SAE") {
		s.sae = true
	}
	if strings.Contains(list, "802.1X") {
		s.eap = true
	}
}

func (b *bssBlock) authMode() AuthMode {
	switch {
	case b.wapi:
		return AuthWAPIPSK
	case b.rsn.eap || (b.wpa.eap && !b.rsn.psk):
		return AuthWPA2Enterprise
	case b.rsn.sae && b.rsn.psk:
		return AuthWPA2WPA3PSK
	case b.rsn.sae:
		return AuthWPA3PSK
	case b.rsn.psk && b.wpa.psk:
		return AuthWPAWPA2PSK
	case b.rsn.psk:
		return AuthWPA2PSK
	case b.wpa.psk:
		return AuthWPAPSK
	case b.rsn.present || b.wpa.present:
		return AuthUnknown
	case b.privacy:
		return AuthWEP
	default:
		return AuthOpen
	}
}

func (b *bssBlock) sighting() capture.Sighting {
	ch := b.channel
	if ch == 0 {
		ch = FrequencyToChannel(b.freq)
	}
	return capture.Sighting{
		Address:  b.addr,
		SSID:     b.ssid,
		RSSI:     b.signal,
		Security: capture.SecurityKindFromAuthMode(int(b.authMode())),
		Channel:  ch,
	}
}

// FrequencyToChannel converts a centre frequency in MHz to its channel
// number, or 0 when the frequency is outside the 2.4, 5 and 6 GHz bands.
func FrequencyToChannel(mhz int) int {
	switch {
	case mhz == 2484:
		return 14
	case mhz >= 2412 && mhz <= 2472:
		return (mhz - 2407) / 5
	case mhz >= 5160 && mhz <= 5885:
		return (mhz - 5000) / 5
	case mhz == 5935:
		return 2
	case mhz >= 5955 && mhz <= 7115:
		return (mhz - 5950) / 5
	default:
		return 0
	}
}

// unescapeSSID decodes the \xNN escapes iw uses for non-printable bytes.
// Control bytes stay escaped so an SSID never spans record log lines.
func unescapeSSID(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil && v >= 0x20 && v != 0x7f {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
