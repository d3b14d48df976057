package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stapelberg/switchergo/switchererr"
)

// DefaultPorts are the two fixed UDP ports Switcher devices broadcast
// on: 20002 for type-1 devices (water heaters, power plugs), 20003
// for type-2 devices (shutters, Breeze thermostats).
var DefaultPorts = []int{20002, 20003}

var (
	packetsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "switcher",
			Subsystem: "discovery",
			Name:      "packets_decoded_total",
			Help:      "number of UDP broadcast datagrams handled, by outcome",
		},
		[]string{"result"})

	lastContact = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "switcher",
			Subsystem: "discovery",
			Name:      "last_contact_seconds",
			Help:      "unix timestamp of the last successfully parsed broadcast per device",
		},
		[]string{"device_id"})
)

func init() {
	prometheus.MustRegister(packetsDecoded)
	prometheus.MustRegister(lastContact)
}

// Sink receives every device successfully parsed from a broadcast.
// The bridge calls it synchronously from the listening goroutine for
// that port; implementations must enqueue and return quickly rather
// than blocking on further I/O ("cheap enqueue").
type Sink func(Device)

// Bridge listens on a fixed set of UDP ports for Switcher device
// broadcasts and delivers parsed devices to a Sink. One Bridge owns
// its sockets exclusively; starting a second Bridge bound to the same
// ports fails as a bind error.
type Bridge struct {
	sink  Sink
	ports []int

	mu      sync.Mutex
	running bool
	conns   []net.PacketConn
	wg      sync.WaitGroup
}

// NewBridge constructs a Bridge that delivers parsed devices to sink.
// If ports is empty, DefaultPorts is used.
func NewBridge(sink Sink, ports ...int) *Bridge {
	if len(ports) == 0 {
		ports = DefaultPorts
	}
	return &Bridge{sink: sink, ports: ports}
}

// IsRunning reports whether the bridge's sockets are currently bound.
func (b *Bridge) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Start binds a UDP socket on each configured port and begins
// delivering parsed devices to the sink. A double Start without an
// intervening Stop is a caller error (switchererr.ErrAlreadyRunning).
// A socket bind failure is fatal and returned; already-bound sockets
// are closed before returning.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return switchererr.ErrAlreadyRunning
	}

	conns := make([]net.PacketConn, 0, len(b.ports))
	for _, port := range b.ports {
		conn, err := net.ListenPacket("udp4", fmt.Sprintf("0.0.0.0:%d", port))
		if err != nil {
			for _, c := range conns {
				c.Close()
			}
			b.mu.Unlock()
			return fmt.Errorf("binding udp port %d: %w", port, err)
		}
		conns = append(conns, conn)
	}
	b.conns = conns
	b.running = true
	b.mu.Unlock()

	for _, conn := range conns {
		b.wg.Add(1)
		go b.readLoop(conn)
	}

	go func() {
		<-ctx.Done()
		b.Stop()
	}()

	return nil
}

// Stop closes both UDP sockets and waits for their read loops to
// return, guaranteeing the sockets are released.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	conns := b.conns
	b.conns = nil
	b.running = false
	b.mu.Unlock()

	var firstErr error
	for _, conn := range conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.wg.Wait()
	return firstErr
}

func (b *Bridge) readLoop(conn net.PacketConn) {
	defer b.wg.Done()
	buf := make([]byte, 2048)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("discovery: read error on %s: %v", conn.LocalAddr(), err)
			return
		}
		b.handleDatagram(buf[:n])
	}
}

func (b *Bridge) handleDatagram(datagram []byte) {
	dev, err := Parse(datagram)
	switch {
	case errors.Is(err, switchererr.ErrNotSwitcherOrigin):
		packetsDecoded.WithLabelValues("malformed").Inc()
		log.Printf("discovery: received datagram from an unknown source")
		return
	case errors.Is(err, switchererr.ErrUnknownModel):
		packetsDecoded.WithLabelValues("unknown").Inc()
		log.Printf("discovery: %v", err)
		return
	case err != nil:
		packetsDecoded.WithLabelValues("error").Inc()
		log.Printf("discovery: unexpected parse error: %v", err)
		return
	}

	packetsDecoded.WithLabelValues(dev.DeviceType().Category.String()).Inc()
	lastContact.WithLabelValues(dev.DeviceID()).SetToCurrentTime()
	b.sink(dev)
}
