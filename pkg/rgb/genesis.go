package rgb

// MetaField is a single typed metadata value attached to a genesis or a
// transition.
type MetaField struct {
	_     struct{} `cbor:",toarray"`
	Type  uint16   `yaml:"type" json:"type" toml:"type"`
	Value []byte   `yaml:"value" json:"value" toml:"value"`
}

// Assignment binds an owned state of a given type to a concealed seal.
// Amount is zero for declarative state.
type Assignment struct {
	_      struct{}     `cbor:",toarray"`
	Type   uint16       `yaml:"type" json:"type" toml:"type"`
	Seal   OutpointHash `yaml:"seal" json:"seal" toml:"seal"`
	Amount uint64       `yaml:"amount" json:"amount" toml:"amount"`
}

// Genesis is the founding state of one contract instance.
type Genesis struct {
	_           struct{}     `cbor:",toarray"`
	SchemaID    SchemaID     `yaml:"schema_id" json:"schema_id" toml:"schema_id"`
	Chain       string       `yaml:"chain" json:"chain" toml:"chain"`
	Metadata    []MetaField  `yaml:"metadata" json:"metadata" toml:"metadata"`
	Assignments []Assignment `yaml:"assignments" json:"assignments" toml:"assignments"`
}

// ContractID returns the content hash of the genesis, which is the id of the
// contract it founds.
func (g *Genesis) ContractID() ContractID {
	return contentHash(genesisTag, g)
}

// Transition is a state transition of a contract after genesis.
type Transition struct {
	_           struct{}     `cbor:",toarray"`
	Type        uint16       `yaml:"type" json:"type" toml:"type"`
	Metadata    []MetaField  `yaml:"metadata" json:"metadata" toml:"metadata"`
	Assignments []Assignment `yaml:"assignments" json:"assignments" toml:"assignments"`
}

// TransitionID returns the content hash of the transition.
func (t *Transition) TransitionID() TransitionID {
	return contentHash(transitionTag, t)
}

// Endpoint points at a concealed seal assigned by one of the consignment's
// transitions; it is where the recipient's ownership starts.
type Endpoint struct {
	_            struct{}     `cbor:",toarray"`
	TransitionID TransitionID `yaml:"transition_id" json:"transition_id" toml:"transition_id"`
	Seal         OutpointHash `yaml:"seal" json:"seal" toml:"seal"`
}

// Consignment is the proof bundle handed from a sender to a recipient: the
// genesis, the transitions leading to the transferred state and the
// endpoints the recipient now controls.
type Consignment struct {
	_           struct{}     `cbor:",toarray"`
	Version     uint8        `yaml:"version" json:"version" toml:"version"`
	Genesis     Genesis      `yaml:"genesis" json:"genesis" toml:"genesis"`
	Transitions []Transition `yaml:"transitions" json:"transitions" toml:"transitions"`
	Endpoints   []Endpoint   `yaml:"endpoints" json:"endpoints" toml:"endpoints"`
}

// ContractID returns the id of the contract the consignment belongs to.
func (c *Consignment) ContractID() ContractID {
	return c.Genesis.ContractID()
}
