package types

import "github.com/fxamacker/cbor/v2"

// canonicalMode is the deterministic CBOR encoding mode shared by every
// MarshalCBOR method in this package: shortest-length integers, sorted map
// keys.
var canonicalMode = func() cbor.EncMode {
	m, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err) // options are a compile-time constant; a failure here is a bug
	}
	return m
}()

func cborEncodeBytes(b []byte) ([]byte, error) { return canonicalMode.Marshal(b) }

func cborDecodeBytes(data []byte) ([]byte, error) {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return b, nil
}
