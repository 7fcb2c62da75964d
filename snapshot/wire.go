package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Snapshot to canonical CBOR bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}

// WriteJSON writes an indented JSON rendering of s.
func WriteJSON(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("snapshot: encode json: %w", err)
	}
	return nil
}

// shape is the part of a snapshot that does not depend on identity.
type shape struct {
	Generation uint64      `cbor:"1,keyasint"`
	Operations []Operation `cbor:"2,keyasint,omitempty"`
	Layers     []Layer     `cbor:"3,keyasint,omitempty"`
}

// Fingerprint hashes the snapshot's operations and layers, ignoring ids,
// names and lineage. A fresh fork has the same fingerprint as its source.
func (s *Snapshot) Fingerprint() ([32]byte, error) {
	data, err := cborEncMode.Marshal(shape{
		Generation: s.Generation,
		Operations: s.Operations,
		Layers:     s.Layers,
	})
	if err != nil {
		return [32]byte{}, fmt.Errorf("snapshot: fingerprint: %w", err)
	}
	return sha256.Sum256(data), nil
}
