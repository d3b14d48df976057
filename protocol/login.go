package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/stapelberg/switchergo/switchererr"
)

// loginType1 performs the water-heater/power-plug handshake: a 4-byte
// local phone id plus a 4-byte device key, no device_id in the body.
func loginType1(s *session, phoneID, deviceKey [4]byte, now uint32) (sessionToken uint32, err error) {
	body := make([]byte, 0, 8)
	body = append(body, phoneID[:]...)
	body = append(body, deviceKey[:]...)
	return login(s, body, now)
}

// loginType2 performs the shutter/Breeze handshake: an 8-byte device
// key followed by the 3 raw bytes backing the 6-hex-digit device_id.
func loginType2(s *session, deviceKey [8]byte, deviceID string, now uint32) (sessionToken uint32, err error) {
	idBytes, err := hex.DecodeString(deviceID)
	if err != nil || len(idBytes) != 3 {
		return 0, &switchererr.InvalidArgumentError{Field: "device_id", Reason: "must be 6 hex digits"}
	}
	body := make([]byte, 0, 11)
	body = append(body, deviceKey[:]...)
	body = append(body, idBytes...)
	return login(s, body, now)
}

func login(s *session, body []byte, now uint32) (uint32, error) {
	req := outPacket{
		Command:      cmdLogin,
		SessionToken: preLoginToken,
		Counter:      0,
		Timestamp:    now,
		Body:         body,
	}
	if err := s.writePacket(req.marshal()); err != nil {
		return 0, fmt.Errorf("%w: %v", switchererr.ErrLoginFailed, err)
	}

	raw, err := s.readPacket()
	if err != nil {
		if errors.Is(err, switchererr.ErrTimeout) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", switchererr.ErrLoginFailed, err)
	}
	if _, err := parsePacket(raw); err != nil {
		return 0, fmt.Errorf("%w: %v", switchererr.ErrLoginFailed, err)
	}
	token, err := sessionTokenAt16(raw)
	if err != nil {
		return 0, err
	}
	return token, nil
}
