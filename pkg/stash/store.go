// Package stash persists contract schemata and genesis records, addressed
// by their content hash.
//
// All implementations share the same contract: reading or removing an absent
// id fails with rgb.ErrNotFound, adding a record reports whether a record with
// the same id was already present (so re-imports are idempotent), and no
// operation retries internally. Implementations are not synchronized across
// processes; a data directory is assumed to have a single writer.
package stash

import "github.com/ArkLabsHQ/rgbnode/pkg/rgb"

// SchemaStore gives access to persisted schemata.
type SchemaStore interface {
	// SchemaIDs lists the ids of all stored schemata.
	SchemaIDs() ([]rgb.SchemaID, error)

	// Schema returns the schema with the given id.
	Schema(id rgb.SchemaID) (*rgb.Schema, error)

	// HasSchema reports whether a schema with the given id is stored.
	HasSchema(id rgb.SchemaID) (bool, error)

	// AddSchema inserts or replaces the schema and reports whether a schema
	// with the same id existed before.
	AddSchema(schema *rgb.Schema) (bool, error)

	// RemoveSchema deletes the schema with the given id and reports whether
	// it existed. Removing an absent schema returns false and
	// rgb.ErrNotFound.
	RemoveSchema(id rgb.SchemaID) (bool, error)
}

// GenesisStore gives access to persisted genesis records.
type GenesisStore interface {
	ContractIDs() ([]rgb.ContractID, error)
	Genesis(id rgb.ContractID) (*rgb.Genesis, error)
	HasGenesis(id rgb.ContractID) (bool, error)
	AddGenesis(genesis *rgb.Genesis) (bool, error)
	RemoveGenesis(id rgb.ContractID) (bool, error)
}

// Store is the full stash capability.
type Store interface {
	SchemaStore
	GenesisStore
}

// recordID is satisfied by every content identifier kept in the stash.
type recordID interface {
	~[rgb.HashSize]byte
	String() string
}

// notFound builds the error returned for absent records.
func notFound[T recordID](kind string, id T) error {
	return rgb.Errorf(rgb.ErrNotFound, "%s %s not found", kind, id)
}
