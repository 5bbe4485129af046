package rgb

// DataKind enumerates the primitive types a schema field can hold.
type DataKind uint8

const (
	DataKindBytes DataKind = iota
	DataKindString
	DataKindUnsigned
	DataKindSigned
	DataKindFloat
)

// Occurrences bounds how many times a field or state may appear.
type Occurrences struct {
	_   struct{} `cbor:",toarray"`
	Min uint16   `yaml:"min" json:"min" toml:"min"`
	Max uint16   `yaml:"max" json:"max" toml:"max"`
}

// FieldType declares a metadata field a contract may carry.
type FieldType struct {
	_           struct{}    `cbor:",toarray"`
	ID          uint16      `yaml:"id" json:"id" toml:"id"`
	Kind        DataKind    `yaml:"kind" json:"kind" toml:"kind"`
	Occurrences Occurrences `yaml:"occurrences" json:"occurrences" toml:"occurrences"`
}

// StateType declares a kind of owned state. Fungible state carries an
// amount; declarative state only a seal.
type StateType struct {
	_        struct{} `cbor:",toarray"`
	ID       uint16   `yaml:"id" json:"id" toml:"id"`
	Fungible bool     `yaml:"fungible" json:"fungible" toml:"fungible"`
}

// TransitionType declares a state transition: which metadata it carries,
// which owned states it closes and which it assigns.
type TransitionType struct {
	_           struct{} `cbor:",toarray"`
	ID          uint16   `yaml:"id" json:"id" toml:"id"`
	Fields      []uint16 `yaml:"fields" json:"fields" toml:"fields"`
	Closes      []uint16 `yaml:"closes" json:"closes" toml:"closes"`
	Assignments []uint16 `yaml:"assignments" json:"assignments" toml:"assignments"`
}

// Schema is the structural definition a class of contracts conforms to. It
// is never mutated in place: a changed schema is a new record with a new id.
type Schema struct {
	_           struct{}         `cbor:",toarray"`
	Name        string           `yaml:"name" json:"name" toml:"name"`
	Version     uint16           `yaml:"version" json:"version" toml:"version"`
	FieldTypes  []FieldType      `yaml:"field_types" json:"field_types" toml:"field_types"`
	StateTypes  []StateType      `yaml:"state_types" json:"state_types" toml:"state_types"`
	Transitions []TransitionType `yaml:"transitions" json:"transitions" toml:"transitions"`
}

// SchemaID returns the content hash of the schema.
func (s *Schema) SchemaID() SchemaID {
	return contentHash(schemaTag, s)
}
