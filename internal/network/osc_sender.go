package network

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hypebeast/go-osc/osc"
)

// OSCSender sends single OSC messages to a receiver. Used by the send subcommand
// and by tests.
type OSCSender struct {
	client *osc.Client
}

// NewOSCSender creates a sender targeting host:port
func NewOSCSender(host string, port int) *OSCSender {
	return &OSCSender{client: osc.NewClient(host, port)}
}

// Send transmits one message with the given arguments
func (s *OSCSender) Send(address string, args ...any) error {
	msg := osc.NewMessage(address)
	for _, a := range args {
		msg.Append(a)
	}
	if err := s.client.Send(msg); err != nil {
		return fmt.Errorf("sending %s: %w", address, err)
	}
	return nil
}

// SendBundle transmits several messages as one OSC bundle
func (s *OSCSender) SendBundle(msgs ...*osc.Message) error {
	bundle := osc.NewBundle(time.Now())
	for _, m := range msgs {
		if err := bundle.Append(m); err != nil {
			return err
		}
	}
	return s.client.Send(bundle)
}

// ParseArg converts a command-line word to an OSC argument: int32 when it
// parses as an integer, float32 when it parses as a number, otherwise string.
func ParseArg(s string) any {
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(i)
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil {
		return float32(f)
	}
	return s
}

// ParseArgs applies ParseArg to every word
func ParseArgs(words []string) []any {
	out := make([]any, 0, len(words))
	for _, w := range words {
		out = append(out, ParseArg(w))
	}
	return out
}
