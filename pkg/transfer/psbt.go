package transfer

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/psbt"
	log "github.com/sirupsen/logrus"
)

// commitmentPubkey picks the key the commitment of an output will tweak:
// the smallest of its derivation public keys. ok is false when the output
// carries no derivation data.
func commitmentPubkey(out *psbt.POutput) (*btcec.PublicKey, bool, error) {
	if len(out.Bip32Derivation) == 0 {
		return nil, false, nil
	}
	first := slices.MinFunc(out.Bip32Derivation, func(a, b *psbt.Bip32Derivation) int {
		return bytes.Compare(a.PubKey, b.PubKey)
	})
	key, err := btcec.ParsePubKey(first.PubKey)
	if err != nil {
		return nil, false, rgb.WrapError(rgb.ErrEncoding, err, "invalid derivation public key")
	}
	return key, true, nil
}

// setUnknown inserts the key-value pair into unknowns, replacing the value of
// an existing entry with the same key.
func setUnknown(unknowns []*psbt.Unknown, key, value []byte) []*psbt.Unknown {
	for _, u := range unknowns {
		if bytes.Equal(u.Key, key) {
			u.Value = value
			return unknowns
		}
	}
	return append(unknowns, &psbt.Unknown{Key: key, Value: value})
}

// InjectCommitmentKeys records, on every output of packet that carries key
// derivation data, the public key its commitment will tweak. Outputs without
// derivation data are left untouched and reported in the returned warnings:
// the commitment cannot be placed on them.
func InjectCommitmentKeys(packet *psbt.Packet) ([]string, error) {
	var warnings []string
	for i := range packet.Outputs {
		out := &packet.Outputs[i]

		key, ok, err := commitmentPubkey(out)
		if err != nil {
			return nil, err
		}
		if !ok {
			msg := fmt.Sprintf("no public key information found for output #%d; "+
				"commitment will be impossible unless key derivation "+
				"information is added to the output", i)
			log.WithField("output", i).Warn(msg)
			warnings = append(warnings, msg)
			continue
		}

		keyBytes := key.SerializeCompressed()
		out.Unknowns = setUnknown(out.Unknowns, CommitmentKey, keyBytes)
		log.Debugf("output #%d commitment key will be %x", i, keyBytes)
	}
	return warnings, nil
}
