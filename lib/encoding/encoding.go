// Package encoding holds the two byte encodings hxview relies on.
//
// Canonical produces CBOR in Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, shortest integer forms, no indefinite-length items. The
// same logical value always encodes to the same bytes, which is what the
// fingerprint digest needs.
//
// Pack and Unpack use msgpack for cached fragment entries, where compactness
// matters and the bytes never feed a digest.
package encoding

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

var canonicalMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	// Encode time.Time as RFC 3339 text with nanoseconds so wall-clock
	// values stay distinguishable below one second.
	opts.Time = cbor.TimeRFC3339Nano
	mode, err := opts.EncMode()
	if err != nil {
		panic("encoding: CBOR encoder initialization failed: " + err.Error())
	}
	canonicalMode = mode
}

// Canonical encodes v deterministically.
func Canonical(v any) ([]byte, error) {
	data, err := canonicalMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding: canonical")
	}
	return data, nil
}

// Pack serializes v with msgpack. Map keys are sorted so equal values pack
// to equal bytes.
func Pack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encoding: pack")
	}
	return buf.Bytes(), nil
}

// Unpack decodes msgpack data produced by Pack into v.
func Unpack(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "encoding: unpack")
	}
	return nil
}
