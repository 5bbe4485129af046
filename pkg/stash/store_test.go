package stash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/stretchr/testify/require"
)

func testSchema(name string) *rgb.Schema {
	return &rgb.Schema{
		Name:    name,
		Version: 1,
		FieldTypes: []rgb.FieldType{
			{ID: 0, Kind: rgb.DataKindString, Occurrences: rgb.Occurrences{Min: 1, Max: 1}},
		},
		StateTypes: []rgb.StateType{{ID: 0, Fungible: true}},
		Transitions: []rgb.TransitionType{
			{ID: 0, Closes: []uint16{0}, Assignments: []uint16{0}},
		},
	}
}

func testGenesis(schema *rgb.Schema, amount uint64) *rgb.Genesis {
	return &rgb.Genesis{
		SchemaID: schema.SchemaID(),
		Chain:    "testnet",
		Metadata: []rgb.MetaField{{Type: 0, Value: []byte("TST")}},
		Assignments: []rgb.Assignment{
			{Type: 0, Seal: rgb.NewWitnessVoutSeal(0, amount).Conceal(), Amount: amount},
		},
	}
}

// backends opens every store implementation on fresh storage.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	disk, err := NewDiskStorage(DiskStorageConfig{DataDir: t.TempDir()})
	require.NoError(t, err)

	db, err := NewBadgerStorage("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store{
		"disk":   disk,
		"memory": NewMemStorage(),
		"badger": db,
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	t.Parallel()

	for name, store := range backends(t) {
		a, b := testSchema("rgb20"), testSchema("rgb21")

		existed, err := store.AddSchema(a)
		require.NoError(t, err, name)
		require.False(t, existed, name)

		existed, err = store.AddSchema(b)
		require.NoError(t, err, name)
		require.False(t, existed, name)

		// Re-adding the same record is idempotent.
		existed, err = store.AddSchema(a)
		require.NoError(t, err, name)
		require.True(t, existed, name)

		got, err := store.Schema(a.SchemaID())
		require.NoError(t, err, name)
		require.Equal(t, a, got, name)
		require.Equal(t, a.SchemaID(), got.SchemaID(), name)

		has, err := store.HasSchema(b.SchemaID())
		require.NoError(t, err, name)
		require.True(t, has, name)

		ids, err := store.SchemaIDs()
		require.NoError(t, err, name)
		require.ElementsMatch(t, []rgb.SchemaID{a.SchemaID(), b.SchemaID()}, ids, name)

		removed, err := store.RemoveSchema(a.SchemaID())
		require.NoError(t, err, name)
		require.True(t, removed, name)

		has, err = store.HasSchema(a.SchemaID())
		require.NoError(t, err, name)
		require.False(t, has, name)
	}
}

func TestGenesisRoundTrip(t *testing.T) {
	t.Parallel()

	schema := testSchema("rgb20")
	for name, store := range backends(t) {
		g1, g2 := testGenesis(schema, 100), testGenesis(schema, 200)
		require.NotEqual(t, g1.ContractID(), g2.ContractID())

		for _, g := range []*rgb.Genesis{g1, g2} {
			existed, err := store.AddGenesis(g)
			require.NoError(t, err, name)
			require.False(t, existed, name)
		}

		got, err := store.Genesis(g2.ContractID())
		require.NoError(t, err, name)
		require.Equal(t, g2, got, name)

		ids, err := store.ContractIDs()
		require.NoError(t, err, name)
		require.ElementsMatch(t, []rgb.ContractID{g1.ContractID(), g2.ContractID()}, ids, name)

		removed, err := store.RemoveGenesis(g1.ContractID())
		require.NoError(t, err, name)
		require.True(t, removed, name)

		ids, err = store.ContractIDs()
		require.NoError(t, err, name)
		require.Equal(t, []rgb.ContractID{g2.ContractID()}, ids, name)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	missingSchema := testSchema("missing").SchemaID()
	missingContract := testGenesis(testSchema("missing"), 1).ContractID()

	for name, store := range backends(t) {
		_, err := store.Schema(missingSchema)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrNotFound), name)
		require.Contains(t, err.Error(), missingSchema.String(), name)

		removed, err := store.RemoveSchema(missingSchema)
		require.False(t, removed, name)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrNotFound), name)

		_, err = store.Genesis(missingContract)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrNotFound), name)

		removed, err = store.RemoveGenesis(missingContract)
		require.False(t, removed, name)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrNotFound), name)

		has, err := store.HasGenesis(missingContract)
		require.NoError(t, err, name)
		require.False(t, has, name)

		ids, err := store.SchemaIDs()
		require.NoError(t, err, name)
		require.Empty(t, ids, name)
	}
}

func TestBackendParity(t *testing.T) {
	t.Parallel()

	schemata := []*rgb.Schema{testSchema("a"), testSchema("b"), testSchema("c")}
	var want []rgb.SchemaID
	for name, store := range backends(t) {
		for _, s := range schemata {
			_, err := store.AddSchema(s)
			require.NoError(t, err, name)
		}
		ids, err := store.SchemaIDs()
		require.NoError(t, err, name)
		if want == nil {
			want = ids
		}
		// Every backend lists ids in ascending byte order.
		require.Equal(t, want, ids, name)
	}
}

// TestSchemaScenario stores a schema, reopens the stash and finds it again
// under the same id.
func TestSchemaScenario(t *testing.T) {
	t.Parallel()

	config := DiskStorageConfig{DataDir: filepath.Join(t.TempDir(), "stash")}
	store, err := NewDiskStorage(config)
	require.NoError(t, err)
	require.DirExists(t, config.SchemataDir())
	require.DirExists(t, config.GenesesDir())

	schema := testSchema("rgb20")
	id := schema.SchemaID()
	_, err = store.AddSchema(schema)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(config.DataDir, "schemata", id.String()+".rgb"))

	reopened, err := NewDiskStorage(config)
	require.NoError(t, err)

	ids, err := reopened.SchemaIDs()
	require.NoError(t, err)
	require.Equal(t, []rgb.SchemaID{id}, ids)

	got, err := reopened.Schema(id)
	require.NoError(t, err)
	require.Equal(t, id, got.SchemaID())
	require.Equal(t, "rgb20", got.Name)

	// No temporary files are left next to the records.
	entries, err := os.ReadDir(config.SchemataDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDiskCorruptedFilename(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStorage(DiskStorageConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	dir := store.Config().SchemataDir()

	// Files with other extensions and directories are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.rgb"), 0o755))
	ids, err := store.SchemaIDs()
	require.NoError(t, err)
	require.Empty(t, ids)

	schema := testSchema("rgb20")
	genesis := testGenesis(schema, 1000)
	tests := []struct {
		name string
		file func(store *DiskStorage) string
		list func(store *DiskStorage) error
	}{
		{
			name: "not hex",
			file: func(store *DiskStorage) string {
				return filepath.Join(store.Config().SchemataDir(), "not-a-hash.rgb")
			},
			list: func(store *DiskStorage) error {
				_, err := store.SchemaIDs()
				return err
			},
		},
		{
			name: "short",
			file: func(store *DiskStorage) string {
				return filepath.Join(store.Config().GenesesDir(), "abcd.rgb")
			},
			list: func(store *DiskStorage) error {
				_, err := store.ContractIDs()
				return err
			},
		},
		{
			name: "upper case schema id",
			file: func(store *DiskStorage) string {
				return filepath.Join(store.Config().SchemataDir(),
					strings.ToUpper(schema.SchemaID().String())+".rgb")
			},
			list: func(store *DiskStorage) error {
				_, err := store.SchemaIDs()
				return err
			},
		},
		{
			name: "upper case contract id",
			file: func(store *DiskStorage) string {
				return filepath.Join(store.Config().GenesesDir(),
					strings.ToUpper(genesis.ContractID().String())+".rgb")
			},
			list: func(store *DiskStorage) error {
				_, err := store.ContractIDs()
				return err
			},
		},
	}
	for _, test := range tests {
		store, err := NewDiskStorage(DiskStorageConfig{DataDir: t.TempDir()})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(test.file(store), nil, 0o644), test.name)

		err = test.list(store)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrCorruptedFilename), test.name)
	}
}

func TestDiskCorruptedRecord(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStorage(DiskStorageConfig{DataDir: t.TempDir()})
	require.NoError(t, err)

	id := testSchema("rgb20").SchemaID()
	path := store.Config().SchemaFilename(id)
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff}, 0o644))

	_, err = store.Schema(id)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrEncoding))
}

func TestBadgerPersistence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewBadgerStorage(dir)
	require.NoError(t, err)

	genesis := testGenesis(testSchema("rgb20"), 42)
	_, err = store.AddGenesis(genesis)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewBadgerStorage(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Genesis(genesis.ContractID())
	require.NoError(t, err)
	require.Equal(t, genesis, got)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	for _, backend := range []Backend{BackendDisk, BackendBadger, BackendMemory} {
		store, err := Open(backend, t.TempDir())
		require.NoError(t, err, backend)

		_, err = store.AddSchema(testSchema("rgb20"))
		require.NoError(t, err, backend)
		require.NoError(t, store.Close(), backend)
	}

	_, err := Open("sqlite", t.TempDir())
	require.True(t, rgb.IsErrorCode(err, rgb.ErrUnsupported))
}
