// Package logscan extracts encoded program events from transaction log
// lines. A transaction's metadata interleaves log output from every program
// it touched (compute budget, token program, the target program itself), so
// the scanner is applied to each line independently and yields nothing for
// the overwhelming majority of them.
package logscan

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabapcia/driftwatch/internal/drift"
)

// ErrMalformedPayload indicates a line that carried a recognized data marker
// but whose remainder was not a valid base64 envelope. Lines without a
// marker never produce this error.
var ErrMalformedPayload = errors.New("malformed event payload")

const (
	// programLogPrefix marks log lines emitted via the program's msg! path.
	programLogPrefix = "Program log: "

	// programDataPrefix marks log lines emitted via sol_log_data. Both
	// prefixes carry the same base64 envelope and are checked in this
	// fixed order.
	programDataPrefix = "Program data: "
)

// Scanner resolves event payloads embedded in log lines against an event
// registry. The zero value is not usable; construct with New.
type Scanner struct {
	registry *drift.Registry
}

// New returns a Scanner resolving payloads through registry.
func New(registry *drift.Registry) *Scanner {
	return &Scanner{registry: registry}
}

// stripMarker returns the payload portion of line and whether line carried
// one of the recognized data markers.
func stripMarker(line string) (string, bool) {
	if payload, ok := strings.CutPrefix(line, programLogPrefix); ok {
		return payload, true
	}

	return strings.CutPrefix(line, programDataPrefix)
}

// Extract attempts to pull a typed event out of a single log line.
//
// Lines without a recognized marker return (nil, nil): they are routine
// output from other programs, not failures. Marked lines whose remainder is
// not valid base64 fail with ErrMalformedPayload. Decoded payloads too short
// to carry a discriminant, or tagged with a discriminant the registry does
// not know, also return (nil, nil), since programs log arbitrary text
// behind the same markers. A known discriminant with a non-conforming payload surfaces
// the registry's decode error.
func (s *Scanner) Extract(line string) (drift.Event, error) {
	payload, ok := stripMarker(line)
	if !ok {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if len(raw) < drift.DiscriminantLen {
		return nil, nil
	}

	return s.registry.Resolve(drift.Discriminant(raw[:drift.DiscriminantLen]), raw[drift.DiscriminantLen:])
}
