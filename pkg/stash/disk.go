package stash

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	log "github.com/sirupsen/logrus"
)

// RGBExtension is the extension of every record file.
const RGBExtension = "rgb"

// DiskStorageConfig locates the stash on disk.
type DiskStorageConfig struct {
	DataDir string
}

// SchemataDir is the directory holding one file per schema.
func (c DiskStorageConfig) SchemataDir() string {
	return filepath.Join(c.DataDir, "schemata")
}

// GenesesDir is the directory holding one file per genesis.
func (c DiskStorageConfig) GenesesDir() string {
	return filepath.Join(c.DataDir, "geneses")
}

// SchemaFilename returns the path of the file holding the given schema.
func (c DiskStorageConfig) SchemaFilename(id rgb.SchemaID) string {
	return filepath.Join(c.SchemataDir(), id.String()+"."+RGBExtension)
}

// GenesisFilename returns the path of the file holding the given genesis.
func (c DiskStorageConfig) GenesisFilename(id rgb.ContractID) string {
	return filepath.Join(c.GenesesDir(), id.String()+"."+RGBExtension)
}

// DiskStorage keeps every record as a single file named after the hex form
// of its id. Files are written atomically.
type DiskStorage struct {
	config DiskStorageConfig
}

// A compile-time assertion to ensure DiskStorage implements Store.
var _ Store = (*DiskStorage)(nil)

// NewDiskStorage opens the stash rooted at config.DataDir, creating the root
// and its subdirectories if they are missing.
func NewDiskStorage(config DiskStorageConfig) (*DiskStorage, error) {
	log.Debug("instantiating stash disk storage")

	for _, dir := range []string{
		config.DataDir, config.SchemataDir(), config.GenesesDir(),
	} {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		log.Debugf("stash directory %q not found; creating one", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, rgb.WrapError(rgb.ErrIO, err, "create "+dir)
		}
	}

	return &DiskStorage{config: config}, nil
}

// Config returns the configuration the storage was opened with.
func (s *DiskStorage) Config() DiskStorageConfig {
	return s.config
}

// listIDs reads the record file names in dir and decodes them back into
// ids. A record file whose name is not a valid id means the directory is
// corrupted, and is reported rather than skipped.
func listIDs[T recordID](dir string, parse func(string) (T, error)) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrIO, err, "list "+dir)
	}

	ids := make([]T, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != "."+RGBExtension {
			continue
		}
		stem := strings.TrimSuffix(name, "."+RGBExtension)
		id, err := parse(stem)
		if err != nil {
			return nil, rgb.WrapError(rgb.ErrCorruptedFilename, err,
				"broken record file name "+filepath.Join(dir, name))
		}
		// Records are only ever written under the lowercase form.
		if id.String() != stem {
			return nil, rgb.NewError(rgb.ErrCorruptedFilename,
				"non canonical record file name "+filepath.Join(dir, name))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// exists reports whether path is present.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, rgb.WrapError(rgb.ErrIO, err, "stat "+path)
	}
}

// write stores v at path and reports whether a file was replaced.
func write(path string, v any) (bool, error) {
	existed, err := exists(path)
	if err != nil {
		return false, err
	}
	if err := rgb.WriteFile(path, v); err != nil {
		return false, err
	}
	return existed, nil
}

// remove deletes path, reporting rgb.ErrNotFound when it is absent.
func remove[T recordID](kind string, id T, path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, notFound(kind, id)
	default:
		return false, rgb.WrapError(rgb.ErrIO, err, "remove "+path)
	}
}

// read decodes the record at path, mapping a missing file to a not found
// error naming the record.
func read[T recordID](kind string, id T, path string, v any) error {
	err := rgb.ReadFile(path, v)
	if rgb.IsErrorCode(err, rgb.ErrNotFound) {
		return notFound(kind, id)
	}
	return err
}

// SchemaIDs lists the ids of all stored schemata.
func (s *DiskStorage) SchemaIDs() ([]rgb.SchemaID, error) {
	return listIDs(s.config.SchemataDir(), rgb.NewSchemaIDFromStr)
}

// Schema reads the schema with the given id.
func (s *DiskStorage) Schema(id rgb.SchemaID) (*rgb.Schema, error) {
	var schema rgb.Schema
	if err := read("schema", id, s.config.SchemaFilename(id), &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// HasSchema reports whether the schema file exists.
func (s *DiskStorage) HasSchema(id rgb.SchemaID) (bool, error) {
	return exists(s.config.SchemaFilename(id))
}

// AddSchema writes the schema under its content hash.
func (s *DiskStorage) AddSchema(schema *rgb.Schema) (bool, error) {
	return write(s.config.SchemaFilename(schema.SchemaID()), schema)
}

// RemoveSchema deletes the schema file.
func (s *DiskStorage) RemoveSchema(id rgb.SchemaID) (bool, error) {
	return remove("schema", id, s.config.SchemaFilename(id))
}

// ContractIDs lists the ids of all stored geneses.
func (s *DiskStorage) ContractIDs() ([]rgb.ContractID, error) {
	return listIDs(s.config.GenesesDir(), rgb.NewContractIDFromStr)
}

// Genesis reads the genesis of the given contract.
func (s *DiskStorage) Genesis(id rgb.ContractID) (*rgb.Genesis, error) {
	var genesis rgb.Genesis
	if err := read("genesis", id, s.config.GenesisFilename(id), &genesis); err != nil {
		return nil, err
	}
	return &genesis, nil
}

// HasGenesis reports whether the genesis file exists.
func (s *DiskStorage) HasGenesis(id rgb.ContractID) (bool, error) {
	return exists(s.config.GenesisFilename(id))
}

// AddGenesis writes the genesis under its contract id.
func (s *DiskStorage) AddGenesis(genesis *rgb.Genesis) (bool, error) {
	return write(s.config.GenesisFilename(genesis.ContractID()), genesis)
}

// RemoveGenesis deletes the genesis file.
func (s *DiskStorage) RemoveGenesis(id rgb.ContractID) (bool, error) {
	return remove("genesis", id, s.config.GenesisFilename(id))
}
