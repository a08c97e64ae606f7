package serialmux

import "testing"

func TestClassifySentence(t *testing.T) {
	tests := map[string]string{
		"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A": SentencePosition,
		"$GNGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*59":    SentencePosition,
		"$GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00*74": SentenceSatellites,
		"$GPTXT,01,01,02,ANTSTATUS=OK*3B":                                      SentenceText,
		"$PMTK001,314,3*36":                                                    SentenceAck,
		"$PMTK010,001*2E":                                                      SentenceUnknown,
		"GPRMC,no,dollar":                                                      SentenceUnknown,
		"":                                                                     SentenceUnknown,
	}
	for line, want := range tests {
		if got := ClassifySentence(line); got != want {
			t.Errorf("ClassifySentence(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestParseAck(t *testing.T) {
	ack, err := ParseAck("$PMTK001,314,3*36")
	if err != nil {
		t.Fatalf("ParseAck failed: %v", err)
	}
	if ack.Command != 314 || ack.Status != AckSucceeded {
		t.Errorf("unexpected ack: %+v", ack)
	}

	ack, err = ParseAck("$PMTK001,220,2*31")
	if err != nil {
		t.Fatalf("ParseAck failed: %v", err)
	}
	if ack.Status != AckFailed || ack.Status.String() != "action failed" {
		t.Errorf("unexpected ack: %+v (%s)", ack, ack.Status)
	}

	for _, bad := range []string{"$GPRMC,1,2", "$PMTK001,abc,3*00", "$PMTK001,314,9*00", "$PMTK001,314"} {
		if _, err := ParseAck(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
	if got := AckStatus(7).String(); got != "AckStatus(7)" {
		t.Errorf("unexpected String for out-of-range status: %s", got)
	}
}
