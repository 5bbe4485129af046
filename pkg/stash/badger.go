package stash

import (
	"errors"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

var (
	schemaPrefix  = []byte("schema/")
	genesisPrefix = []byte("genesis/")
)

// BadgerStorage keeps the stash in a badger key-value database, one key per
// record under a per-kind prefix.
type BadgerStorage struct {
	db *badger.DB
}

// A compile-time assertion to ensure BadgerStorage implements Store.
var _ Store = (*BadgerStorage)(nil)

// NewBadgerStorage opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database.
func NewBadgerStorage(dir string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(log.WithField("component", "badger"))
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrIO, err, "open badger stash")
	}
	return &BadgerStorage{db: db}, nil
}

// Close releases the database.
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

func recordKey[T recordID](prefix []byte, id T) []byte {
	key := make([]byte, 0, len(prefix)+rgb.HashSize)
	key = append(key, prefix...)
	return append(key, id[:]...)
}

func (s *BadgerStorage) listIDs(prefix []byte, yield func(id [rgb.HashSize]byte)) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()[len(prefix):]
			if len(key) != rgb.HashSize {
				return rgb.Errorf(rgb.ErrCorruptedFilename,
					"broken record key %x", it.Item().Key())
			}
			yield([rgb.HashSize]byte(key))
		}
		return nil
	})
	if err != nil && !rgb.IsErrorCode(err, rgb.ErrCorruptedFilename) {
		return rgb.WrapError(rgb.ErrIO, err, "list records")
	}
	return err
}

func (s *BadgerStorage) get(key []byte, v any) (bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, rgb.WrapError(rgb.ErrIO, err, "read record")
	}
	return true, rgb.Decode(data, v)
}

func (s *BadgerStorage) has(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, rgb.WrapError(rgb.ErrIO, err, "read record")
	}
	return true, nil
}

func (s *BadgerStorage) put(key []byte, v any) (bool, error) {
	data, err := rgb.Encode(v)
	if err != nil {
		return false, err
	}

	var existed bool
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			existed = true
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, rgb.WrapError(rgb.ErrIO, err, "write record")
	}
	return existed, nil
}

// del deletes key, reporting whether it existed.
func (s *BadgerStorage) del(key []byte) (bool, error) {
	var existed bool
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		case err != nil:
			return err
		}
		existed = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, rgb.WrapError(rgb.ErrIO, err, "delete record")
	}
	return existed, nil
}

func (s *BadgerStorage) SchemaIDs() ([]rgb.SchemaID, error) {
	var ids []rgb.SchemaID
	err := s.listIDs(schemaPrefix, func(id [rgb.HashSize]byte) {
		ids = append(ids, id)
	})
	return ids, err
}

func (s *BadgerStorage) Schema(id rgb.SchemaID) (*rgb.Schema, error) {
	var schema rgb.Schema
	found, err := s.get(recordKey(schemaPrefix, id), &schema)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("schema", id)
	}
	return &schema, nil
}

func (s *BadgerStorage) HasSchema(id rgb.SchemaID) (bool, error) {
	return s.has(recordKey(schemaPrefix, id))
}

func (s *BadgerStorage) AddSchema(schema *rgb.Schema) (bool, error) {
	return s.put(recordKey(schemaPrefix, schema.SchemaID()), schema)
}

func (s *BadgerStorage) RemoveSchema(id rgb.SchemaID) (bool, error) {
	existed, err := s.del(recordKey(schemaPrefix, id))
	if err == nil && !existed {
		err = notFound("schema", id)
	}
	return existed, err
}

func (s *BadgerStorage) ContractIDs() ([]rgb.ContractID, error) {
	var ids []rgb.ContractID
	err := s.listIDs(genesisPrefix, func(id [rgb.HashSize]byte) {
		ids = append(ids, id)
	})
	return ids, err
}

func (s *BadgerStorage) Genesis(id rgb.ContractID) (*rgb.Genesis, error) {
	var genesis rgb.Genesis
	found, err := s.get(recordKey(genesisPrefix, id), &genesis)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("genesis", id)
	}
	return &genesis, nil
}

func (s *BadgerStorage) HasGenesis(id rgb.ContractID) (bool, error) {
	return s.has(recordKey(genesisPrefix, id))
}

func (s *BadgerStorage) AddGenesis(genesis *rgb.Genesis) (bool, error) {
	return s.put(recordKey(genesisPrefix, genesis.ContractID()), genesis)
}

func (s *BadgerStorage) RemoveGenesis(id rgb.ContractID) (bool, error) {
	existed, err := s.del(recordKey(genesisPrefix, id))
	if err == nil && !existed {
		err = notFound("genesis", id)
	}
	return existed, err
}
