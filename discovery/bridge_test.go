package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stapelberg/switchergo/switchererr"
)

func TestBridge_StartStopAndDeliver(t *testing.T) {
	devices := make(chan Device, 1)
	b := NewBridge(func(d Device) { devices <- d }, 0, 0) // port 0: let the OS pick a free port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop()

	if !b.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}

	addr := b.conns[0].LocalAddr().(*net.UDPAddr)
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer conn.Close()

	d := buildType1Datagram(
		[3]byte{0x39, 0x33, 0xac},
		"Boiler",
		[2]byte{0x01, 0x00},
		[4]byte{0x04, 0x03, 0x02, 0x01},
		[6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		0x01,
		[2]byte{0xa0, 0x05},
		[4]byte{0x1e, 0x10, 0x00, 0x00},
		[4]byte{0x00, 0x00, 0x00, 0x00},
	)
	if _, err := conn.Write(d); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case dev := <-devices:
		if dev.DeviceID() != "3933ac" {
			t.Errorf("DeviceID = %q, want 3933ac", dev.DeviceID())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sink delivery")
	}

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if b.IsRunning() {
		t.Fatal("IsRunning() = true after Stop")
	}
}

func TestBridge_DoubleStartFails(t *testing.T) {
	b := NewBridge(func(Device) {}, 0)
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop()

	if err := b.Start(ctx); !errors.Is(err, switchererr.ErrAlreadyRunning) {
		t.Fatalf("second Start error = %v, want ErrAlreadyRunning", err)
	}
}
