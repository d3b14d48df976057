package main

import (
	"encoding/hex"
	"fmt"
)

func parseHex4(flagName, s string) ([4]byte, error) {
	var out [4]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 4 {
		return out, fmt.Errorf("-%s must be 8 hex characters (4 bytes), got %q", flagName, s)
	}
	copy(out[:], b)
	return out, nil
}

func parseHex8(flagName, s string) ([8]byte, error) {
	var out [8]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 8 {
		return out, fmt.Errorf("-%s must be 16 hex characters (8 bytes), got %q", flagName, s)
	}
	copy(out[:], b)
	return out, nil
}
