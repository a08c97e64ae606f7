package serialmux

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SentencePosition   = "position"
	SentenceSatellites = "satellites"
	SentenceAck        = "ack"
	SentenceText       = "text"
	SentenceUnknown    = "unknown"
)

// ClassifySentence returns a coarse type for an NMEA line by looking only at
// its address field, without validating the checksum.
func ClassifySentence(line string) string {
	if !strings.HasPrefix(line, "$") {
		return SentenceUnknown
	}
	addr, _, _ := strings.Cut(line[1:], ",")
	if strings.HasPrefix(addr, "PMTK001") {
		return SentenceAck
	}
	if len(addr) != 5 {
		return SentenceUnknown
	}
	switch addr[2:] {
	case "RMC", "GGA", "GLL":
		return SentencePosition
	case "GSA", "GSV":
		return SentenceSatellites
	case "TXT":
		return SentenceText
	}
	return SentenceUnknown
}

// AckStatus is the result flag of an MTK command acknowledgement.
type AckStatus int

const (
	AckInvalid AckStatus = iota
	AckUnsupported
	AckFailed
	AckSucceeded
)

func (a AckStatus) String() string {
	switch a {
	case AckInvalid:
		return "invalid command"
	case AckUnsupported:
		return "unsupported command"
	case AckFailed:
		return "action failed"
	case AckSucceeded:
		return "succeeded"
	}
	return fmt.Sprintf("AckStatus(%d)", int(a))
}

// Ack is a parsed $PMTK001 acknowledgement.
type Ack struct {
	Command int
	Status  AckStatus
}

// ParseAck parses "$PMTK001,<cmd>,<flag>*CS".
func ParseAck(line string) (Ack, error) {
	body, _, _ := strings.Cut(strings.TrimPrefix(line, "$"), "*")
	fields := strings.Split(body, ",")
	if len(fields) < 3 || fields[0] != "PMTK001" {
		return Ack{}, fmt.Errorf("not an MTK acknowledgement: %q", line)
	}
	cmd, err := strconv.Atoi(fields[1])
	if err != nil {
		return Ack{}, fmt.Errorf("bad command number in %q: %w", line, err)
	}
	flag, err := strconv.Atoi(fields[2])
	if err != nil || flag < int(AckInvalid) || flag > int(AckSucceeded) {
		return Ack{}, fmt.Errorf("bad ack flag in %q", line)
	}
	return Ack{Command: cmd, Status: AckStatus(flag)}, nil
}
