package rgb

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

var (
	// encMode is the deterministic binary encoding shared by persisted
	// records and wire messages: CBOR core deterministic encoding with
	// sorted map keys and shortest-form integers and floats.
	encMode cbor.EncMode

	// decMode rejects duplicate map keys so that a given byte string has a
	// single interpretation.
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(err)
	}
}

// Encode serializes v with the deterministic binary encoding.
func Encode(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, WrapError(ErrEncoding, err, "encode")
	}
	return data, nil
}

// Decode deserializes data produced by Encode into v.
func Decode(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return WrapError(ErrEncoding, err, "decode")
	}
	return nil
}

// mustEncode is used for hashing records made of plain fields, whose
// encoding cannot fail.
func mustEncode(v any) []byte {
	data, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return data
}

// WriteFile encodes v and atomically replaces the file at path with the
// result. The data is first written to a temporary file in the same
// directory, synced, and then renamed over path, so a crash never leaves a
// truncated record behind.
func WriteFile(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic atomically replaces the file at path with data.
func WriteFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return WrapError(ErrIO, err, "create temporary file")
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		cleanup()
		return WrapError(ErrIO, err, "write "+path)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return WrapError(ErrIO, err, "sync "+path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return WrapError(ErrIO, err, "close "+path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return WrapError(ErrIO, err, "rename "+path)
	}
	return nil
}

// ReadFile reads the whole file at path and decodes it into v. A missing
// file is reported as ErrNotFound, a malformed one as ErrEncoding.
func ReadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WrapError(ErrNotFound, err, "read "+path)
		}
		return WrapError(ErrIO, err, "read "+path)
	}
	return Decode(data, v)
}
