package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"holmes/internal/vtr"
)

// parseArg converts a raw command-line argument into a vtr.Value of type t.
// Supported built-ins mirror internal/fixture's scalar convention: text is
// taken verbatim, uint64 is parsed as a base-10 unsigned integer, and bytes
// is a hex string optionally prefixed with "0x". Multi-column types have no
// scalar command-line representation.
func parseArg(raw string, t vtr.Type) (vtr.Value, error) {
	switch t.Name() {
	case "text":
		return vtr.Value{Type: t, Data: raw}, nil

	case "uint64":
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return vtr.Value{}, fmt.Errorf("invalid uint64 %q: %w", raw, err)
		}
		return vtr.Value{Type: t, Data: n}, nil

	case "bytes":
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return vtr.Value{}, fmt.Errorf("invalid hex string %q: %w", raw, err)
		}
		return vtr.Value{Type: t, Data: b}, nil

	default:
		return vtr.Value{}, fmt.Errorf("type %q has no scalar command-line representation", t.Name())
	}
}
