package drift

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// ErrDecode indicates a payload whose discriminant matched a registered
// event but whose remaining bytes do not conform to that event's borsh
// layout. Unknown discriminants are not an error: Resolve reports those as
// (nil, nil).
var ErrDecode = errors.New("event data does not match registered layout")

// DiscriminantLen is the length of the Anchor event discriminant prefixing
// every encoded event payload.
const DiscriminantLen = 8

// Discriminant tags an encoded event payload with the event kind it carries.
type Discriminant [DiscriminantLen]byte

// EventDiscriminant derives the discriminant for the named event following
// the Anchor convention: the first 8 bytes of sha256("event:<name>").
func EventDiscriminant(name string) Discriminant {
	sum := sha256.Sum256([]byte("event:" + name))
	return Discriminant(sum[:DiscriminantLen])
}

// decodeFunc produces one typed event from a borsh payload (discriminant
// already stripped).
type decodeFunc func(data []byte) (Event, error)

// Registry maps event discriminants to typed decoders. It is a pure
// data-driven lookup: adding an event kind is a single Register call, and no
// caller branches on concrete types. A Registry is immutable after
// construction and safe for concurrent use.
type Registry struct {
	decoders map[Discriminant]decodeFunc
}

// NewRegistry builds a Registry holding every event kind this indexer
// understands.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[Discriminant]decodeFunc)}
	registerEvent[OrderActionRecord](r)
	registerEvent[OrderRecord](r)
	return r
}

// registerEvent installs a strict borsh decoder for the event type T under
// the discriminant derived from its name.
func registerEvent[T Event](r *Registry) {
	var zero T
	name := zero.EventName()

	r.decoders[EventDiscriminant(name)] = func(data []byte) (Event, error) {
		var event T

		decoder := bin.NewBorshDecoder(data)
		if err := decoder.Decode(&event); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
		}
		if remaining := decoder.Remaining(); remaining > 0 {
			return nil, fmt.Errorf("%w: %s: %d trailing bytes", ErrDecode, name, remaining)
		}

		return event, nil
	}
}

// Resolve decodes payload as the event kind tagged by disc. It returns
// (nil, nil) when the discriminant is unknown, the decoded event on success,
// or an error wrapping ErrDecode when the payload does not conform to the
// registered layout. Decoding is strict: length mismatches and trailing
// bytes fail rather than yield a partial record.
func (r *Registry) Resolve(disc Discriminant, payload []byte) (Event, error) {
	decode, ok := r.decoders[disc]
	if !ok {
		return nil, nil
	}

	return decode(payload)
}

// Encode serializes event into its wire form: discriminant followed by the
// borsh-encoded fields. It is the inverse of Resolve and exists mainly for
// tests and tooling that fabricate log payloads.
func Encode(event Event) ([]byte, error) {
	var buf bytes.Buffer

	disc := EventDiscriminant(event.EventName())
	buf.Write(disc[:])

	if err := bin.NewBorshEncoder(&buf).Encode(event); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
