package capture

import (
	"strconv"
	"strings"

	"github.com/banshee-data/wardrive/internal/gps"
)

// LogHeader is written once at the top of a new record log.
const LogHeader = "SSID, SECURITY, CHANNEL, LAT, LONG, TIME\n"

const fieldSep = ", "

var lineBreaks = strings.NewReplacer("\n", `\x0a`, "\r", `\x0d`)

// Format renders one record log line. Coordinates are zero when fix is not
// valid, so a network is logged even without a position lock. Line breaks in
// the SSID are written as \xNN escapes.
func Format(s Sighting, fix gps.Fix) string {
	lat, lon := fix.Coordinates()

	var b strings.Builder
	b.WriteString(lineBreaks.Replace(s.SSID))
	b.WriteString(fieldSep)
	b.WriteString(s.Security.Label())
	b.WriteString(fieldSep)
	b.WriteString(strconv.Itoa(s.Channel))
	b.WriteString(fieldSep)
	b.WriteString(strconv.Itoa(s.RSSI))
	b.WriteString(fieldSep)
	b.WriteString(strconv.FormatFloat(lat, 'f', 4, 64))
	b.WriteString(fieldSep)
	b.WriteString(strconv.FormatFloat(lon, 'f', 4, 64))
	b.WriteByte('\n')
	return b.String()
}
