package engine

import (
	"github.com/google/uuid"
	"github.com/gopherdb/simpledb/metadata"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/tx"
)

// Connection is a single client's session against a Database: one
// transaction, created on NewConnection and replaced every commit/rollback.
// Each Connection carries a UUID so that logging and a remote front-end can
// tell sessions apart without exposing the underlying transaction number.
type Connection struct {
	id          uuid.UUID
	db          *Database
	transaction *tx.Transaction
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() uuid.UUID {
	if c.id == uuid.Nil {
		c.id = uuid.New()
	}
	return c.id
}

// CreateStatement returns a Statement that runs sql against this
// connection's current transaction.
func (c *Connection) CreateStatement(sql string) *Statement {
	return &Statement{conn: c, sql: sql}
}

// GetTableSchema returns the schema of tableName as recorded in the catalog.
func (c *Connection) GetTableSchema(tableName string) (*record.Schema, error) {
	layout, err := c.db.MetadataManager().GetLayout(tableName, c.transaction)
	if err != nil {
		return nil, err
	}
	return layout.Schema(), nil
}

// GetViewDefinition returns viewName's stored definition along with its
// name, matching the (name, def) pair recorded in viewcat.
func (c *Connection) GetViewDefinition(viewName string) (name string, def string, err error) {
	def, err = c.db.MetadataManager().GetViewDefinition(viewName, c.transaction)
	if err != nil {
		return "", "", err
	}
	return viewName, def, nil
}

// GetIndexInfo returns the indexes defined on tableName, keyed by field name.
func (c *Connection) GetIndexInfo(tableName string) (map[string]*metadata.IndexInfo, error) {
	return c.db.MetadataManager().GetIndexInfo(tableName, c.transaction)
}

// Commit commits the connection's transaction and starts a fresh one, so
// the connection stays usable for the next statement.
func (c *Connection) Commit() error {
	if err := c.transaction.Commit(); err != nil {
		return err
	}
	c.transaction = c.db.newTx()
	return nil
}

// Rollback rolls back the connection's transaction and starts a fresh one.
func (c *Connection) Rollback() error {
	if err := c.transaction.Rollback(); err != nil {
		return err
	}
	c.transaction = c.db.newTx()
	return nil
}

// Close rolls back any work left pending on the connection's transaction.
func (c *Connection) Close() error {
	return c.transaction.Rollback()
}
