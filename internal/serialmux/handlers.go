package serialmux

import (
	"context"

	"github.com/banshee-data/wardrive/internal/monitoring"
)

// HandleReceiverMessage logs command acknowledgements and receiver text
// messages. Position and satellite sentences are left to the position feed.
func HandleReceiverMessage(line string) {
	switch ClassifySentence(line) {
	case SentenceAck:
		ack, err := ParseAck(line)
		if err != nil {
			monitoring.Logf("gps: %v", err)
			return
		}
		if ack.Status != AckSucceeded {
			monitoring.Logf("gps: command PMTK%03d %s", ack.Command, ack.Status)
			return
		}
		monitoring.Verbosef("gps: command PMTK%03d %s", ack.Command, ack.Status)
	case SentenceText:
		monitoring.Logf("gps: receiver says %s", line)
	}
}

// WatchReceiverMessages subscribes to mux and handles receiver messages until
// ctx is cancelled or the mux closes the subscription.
func WatchReceiverMessages(ctx context.Context, mux SerialMuxInterface) error {
	id, lines := mux.Subscribe()
	defer mux.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			HandleReceiverMessage(line)
		}
	}
}
