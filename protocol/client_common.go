package protocol

import (
	"context"
	"errors"
	"time"

	"github.com/stapelberg/switchergo/switchererr"
)

// operation runs one request/response exchange over an already
// logged-in session and returns the validated inPacket, translating
// transport and framing failures into RequestFailedError per §4.5
// ("<operation> request was not successful"). Timeouts are returned
// unwrapped so callers and their callers can distinguish them from a
// hard failure.
func operation(s *session, op string, req outPacket) (inPacket, error) {
	if err := s.writePacket(req.marshal()); err != nil {
		return inPacket{}, &switchererr.RequestFailedError{Op: op}
	}
	raw, err := s.readPacket()
	if err != nil {
		if errors.Is(err, switchererr.ErrTimeout) {
			return inPacket{}, err
		}
		return inPacket{}, &switchererr.RequestFailedError{Op: op}
	}
	p, err := parsePacket(raw)
	if err != nil {
		return inPacket{}, &switchererr.RequestFailedError{Op: op}
	}
	return p, nil
}

// nowSeconds returns the packet timestamp to embed. Kept as a
// var-of-func (not time.Now() called inline) so tests can substitute a
// fixed clock without threading one through every call.
var nowSeconds = func() uint32 {
	return uint32(time.Now().Unix())
}

func newSession(ctx context.Context, host string, timeout time.Duration) (*session, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return dial(ctx, host, timeout)
}
