package protocol

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stapelberg/switchergo/internal/codec"
	"github.com/stapelberg/switchergo/switchererr"
)

func TestType2Client_GetShutterState(t *testing.T) {
	fd := startFakeDevice(t, func(n int, raw []byte, conn net.Conn) {
		if n == 1 {
			writeLoginOK(conn, 0x1)
			return
		}
		body := []byte{0x00, 42, 0x01} // ack, position=42, direction=up
		resp := make([]byte, headerLen)
		resp[0], resp[1] = 0xfe, 0xf0
		binary.LittleEndian.PutUint16(resp[2:4], uint16(headerLen+len(body)+2))
		resp = append(resp, body...)
		conn.Write(codec.AppendCRC(resp))
	})
	defer fd.close()

	c := &Type2Client{Host: fd.addrForDial(), DeviceID: "3933ac", Timeout: time.Second}
	st, err := c.GetShutterState(context.Background())
	if err != nil {
		t.Fatalf("GetShutterState: %v", err)
	}
	if st.Position != 42 {
		t.Errorf("Position = %d, want 42", st.Position)
	}
}

func TestType2Client_SetPosition_InvalidArgument(t *testing.T) {
	c := &Type2Client{Host: "127.0.0.1:1"}
	_, err := c.SetPosition(context.Background(), 150)
	var argErr *switchererr.InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("err = %v, want InvalidArgumentError", err)
	}
}

func TestType1Client_SetName_TooLong(t *testing.T) {
	c := &Type1Client{Host: "127.0.0.1:1"}
	_, err := c.SetName(context.Background(), string(make([]byte, 33)))
	var argErr *switchererr.InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("err = %v, want InvalidArgumentError", err)
	}
}
