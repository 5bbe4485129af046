package rgb

// testSchema returns a small fungible asset schema.
func testSchema() *Schema {
	return &Schema{
		Name:    "rgb20",
		Version: 1,
		FieldTypes: []FieldType{
			{ID: 0, Kind: DataKindString, Occurrences: Occurrences{Min: 1, Max: 1}},
			{ID: 1, Kind: DataKindUnsigned, Occurrences: Occurrences{Min: 0, Max: 1}},
		},
		StateTypes: []StateType{
			{ID: 0, Fungible: true},
			{ID: 1, Fungible: false},
		},
		Transitions: []TransitionType{
			{ID: 0, Fields: []uint16{0}, Closes: []uint16{0}, Assignments: []uint16{0}},
		},
	}
}

// testGenesis returns a genesis of testSchema allocating two amounts.
func testGenesis() *Genesis {
	return &Genesis{
		SchemaID: testSchema().SchemaID(),
		Chain:    "testnet",
		Metadata: []MetaField{{Type: 0, Value: []byte("USDT")}},
		Assignments: []Assignment{
			{Type: 0, Seal: OutpointHash{0x01}, Amount: 1000},
			{Type: 0, Seal: OutpointHash{0x02}, Amount: 500},
		},
	}
}
