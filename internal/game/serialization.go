package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/magefree/realms-server-go/internal/game/cards"
)

// SerializationChecksum is a deterministic fingerprint of a board. Two boards
// reached by the same seed and action log have the same hash.
type SerializationChecksum struct {
	Hash    string // SHA-256 of the canonical representation
	Version int    // bumped when the representation changes
}

const checksumVersion = 1

// ComputeChecksum hashes the canonical representation of b.
func (b *Board) ComputeChecksum() (*SerializationChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(b.buildDeterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &SerializationChecksum{
		Hash:    hex.EncodeToString(hash.Sum(nil)),
		Version: checksumVersion,
	}, nil
}

func writeCards(buf *bytes.Buffer, label string, list []cards.Card) {
	keys := make([]string, len(list))
	for i, c := range list {
		keys[i] = c.Key()
	}
	fmt.Fprintf(buf, "%s:%s\n", label, strings.Join(keys, ","))
}

// buildDeterministicRepresentation renders every zone in order. Zone order
// is significant (decks are stacks, indices address hands), so nothing is
// sorted. The RNG seeds are included because they determine future draws.
func (b *Board) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "BOARD:%d|%d|%t|%d\n", b.Players, b.CurrentPlayer, b.GameOver, b.RNG.Seed)
	writeCards(&buf, "SHOP", b.Shop)
	writeCards(&buf, "SHOP_DECK", b.ShopDeck)
	writeCards(&buf, "GEMS", b.Gems)
	writeCards(&buf, "SACRIFICED", b.Sacrificed)

	for i := range b.Mats {
		m := &b.Mats[i]
		fmt.Fprintf(&buf, "MAT:%d|%s|%d|%d|%d|%d|%d|%d|%d|%d\n",
			i, m.Name,
			m.Lives, m.Combat, m.Gold, m.MustDiscard,
			m.NextActionToTop, m.NextToTop, m.NextToHand,
			m.RNG.Seed,
		)
		writeCards(&buf, "  HAND", m.Hand)
		writeCards(&buf, "  DECK", m.Deck)
		writeCards(&buf, "  DISCARD", m.Discard)
		for _, cif := range m.Field {
			fmt.Fprintf(&buf, "  FIELD:%s|%t|%t\n", cif.Card.Key(), cif.ExpendUsed, cif.AllyUsed)
		}
	}
	return buf.String()
}

// VerifyChecksum reports whether b still hashes to expected.
func (b *Board) VerifyChecksum(expected *SerializationChecksum) (bool, error) {
	computed, err := b.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// SerializeToBytes gob-encodes the board.
func (b *Board) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeBoard decodes a board produced by SerializeToBytes.
func DeserializeBoard(data []byte) (*Board, error) {
	var b Board
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode board: %w", err)
	}
	return &b, nil
}

// ValidateSerializationRoundtrip checks that b survives encoding unchanged
// by comparing checksums before and after.
func ValidateSerializationRoundtrip(b *Board) error {
	original, err := b.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}
	data, err := b.SerializeToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	decoded, err := DeserializeBoard(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}
	ok, err := decoded.VerifyChecksum(original)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("checksum mismatch after roundtrip")
	}
	return nil
}
