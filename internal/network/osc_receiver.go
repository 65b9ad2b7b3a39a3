// Package network carries OSC control messages over UDP.
package network

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hypebeast/go-osc/osc"
	log "github.com/sirupsen/logrus"

	"reachz/internal/router"
)

// maxPacketSize bounds a single OSC datagram
const maxPacketSize = 65535

// readRetryDelay is the pause after a socket read error before reading again
const readRetryDelay = 100 * time.Millisecond

// OSCReceiver listens for OSC packets on UDP and hands every contained message
// to Dispatch. Packets are handled one at a time in arrival order, and the
// messages of a bundle in the order they appear.
type OSCReceiver struct {
	addr string
	conn net.PacketConn
	done chan struct{}
	wg   sync.WaitGroup

	// Dispatch is called for each decoded message
	Dispatch func(router.Message)

	packets   atomic.Uint64
	messages  atomic.Uint64
	malformed atomic.Uint64
}

// Stats are the receiver counters since Start
type Stats struct {
	Packets   uint64 `json:"packets"`
	Messages  uint64 `json:"messages"`
	Malformed uint64 `json:"malformed"`
}

// NewOSCReceiver creates a receiver for addr in "ip:port" form
func NewOSCReceiver(addr string) *OSCReceiver {
	return &OSCReceiver{
		addr: addr,
		done: make(chan struct{}),
	}
}

// Start binds the UDP socket and begins receiving
func (r *OSCReceiver) Start() error {
	conn, err := net.ListenPacket("udp", r.addr)
	if err != nil {
		return err
	}
	r.conn = conn

	// Large read buffer for bursts of trackpad frames
	if udp, ok := conn.(*net.UDPConn); ok {
		udp.SetReadBuffer(1 << 20)
	}

	log.Printf("OSC Receiver: Listening on %s", conn.LocalAddr())

	r.wg.Add(1)
	go r.readLoop()
	return nil
}

// LocalAddr returns the bound address, nil before Start
func (r *OSCReceiver) LocalAddr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Stats returns a snapshot of the counters
func (r *OSCReceiver) Stats() Stats {
	return Stats{
		Packets:   r.packets.Load(),
		Messages:  r.messages.Load(),
		Malformed: r.malformed.Load(),
	}
}

func (r *OSCReceiver) readLoop() {
	defer r.wg.Done()
	buf := make([]byte, maxPacketSize)
	for {
		n, from, err := r.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warnf("OSC Receiver: read error: %v", err)
			select {
			case <-r.done:
				return
			case <-time.After(readRetryDelay):
				continue
			}
		}
		r.packets.Add(1)

		// ParsePacket returns a nil packet for data that is neither a message nor a bundle.
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err == nil && packet == nil {
			err = errors.New("not an OSC message or bundle")
		}
		if err != nil {
			r.malformed.Add(1)
			log.Debugf("OSC Receiver: dropping malformed packet from %s: %v", from, err)
			continue
		}
		r.handlePacket(packet)
	}
}

func (r *OSCReceiver) handlePacket(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		r.dispatch(p)
	case *osc.Bundle:
		for _, m := range p.Messages {
			r.dispatch(m)
		}
		for _, b := range p.Bundles {
			r.handlePacket(b)
		}
	default:
		r.malformed.Add(1)
		log.Debugf("OSC Receiver: dropping unsupported packet %T", packet)
	}
}

func (r *OSCReceiver) dispatch(m *osc.Message) {
	r.messages.Add(1)
	if r.Dispatch == nil {
		return
	}
	r.Dispatch(router.Message{Address: m.Address, Args: router.Args(m.Arguments)})
}

// Stop shuts down the receiver and waits for the read loop to exit
func (r *OSCReceiver) Stop() {
	select {
	case <-r.done:
		return
	default:
	}
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
	}
	r.wg.Wait()
}
