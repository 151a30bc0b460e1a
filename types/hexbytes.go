package types

import (
	"encoding/hex"

	"github.com/wikiocracy/voteflow/errs"
)

// HexBytes is a []byte that encodes as a lowercase-hex JSON string and as
// raw bytes in CBOR: human-readable at the edges, compact on the wire.
type HexBytes []byte

func (b HexBytes) String() string { return hex.EncodeToString(b) }

func (b HexBytes) MarshalJSON() ([]byte, error) { return []byte(`"` + b.String() + `"`), nil }

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return &errs.BadHex{Value: string(data)}
	}
	decoded, err := hex.DecodeString(string(data[1 : len(data)-1]))
	if err != nil {
		return &errs.BadHex{Value: string(data)}
	}
	*b = decoded
	return nil
}

func (b HexBytes) MarshalCBOR() ([]byte, error) { return cborEncodeBytes(b) }

func (b *HexBytes) UnmarshalCBOR(data []byte) error {
	decoded, err := cborDecodeBytes(data)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

