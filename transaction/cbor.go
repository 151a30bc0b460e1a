package transaction

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/wikiocracy/voteflow/errs"
)

// canonicalMode is the deterministic CBOR encoding every payload and
// envelope in this package uses: shortest-length integers, sorted map
// keys. The same mode backs both the signing preimage and the wire form,
// so a signature over canonicalBytes(payload) is also a signature over
// exactly what gets stored.
var canonicalMode = func() cbor.EncMode {
	m, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return m
}()

func canonicalBytes(v any) ([]byte, error) {
	b, err := canonicalMode.Marshal(v)
	if err != nil {
		return nil, &errs.MalformedCBOR{Err: err}
	}
	return b, nil
}
