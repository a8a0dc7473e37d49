package blockly

// Input is a named slot on a block holding one connection: an expression
// slot (InputValue) or a nested statement slot (NextStatement).
type Input struct {
	name  string
	block *Block
	conn  *Connection
}

// Name returns the input's name, unique within its block.
func (in *Input) Name() string {
	return in.name
}

// Block returns the block the input belongs to.
func (in *Input) Block() *Block {
	return in.block
}

// Connection returns the input's connection.
func (in *Input) Connection() *Connection {
	return in.conn
}

// Kind returns the kind of the input's connection.
func (in *Input) Kind() Kind {
	return in.conn.kind
}

// TargetBlock returns the block currently attached to the input, or nil.
func (in *Input) TargetBlock() *Block {
	return in.conn.TargetBlock()
}
