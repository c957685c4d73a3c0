package engine

import (
	"github.com/gopherdb/simpledb/buffer"
	"github.com/gopherdb/simpledb/enginelog"
	"github.com/gopherdb/simpledb/file"
	"github.com/gopherdb/simpledb/log"
	"github.com/gopherdb/simpledb/metadata"
	"github.com/gopherdb/simpledb/plan_impl"
	"github.com/gopherdb/simpledb/tx"
	"github.com/gopherdb/simpledb/tx/concurrency"
)

// Database is the process-wide coordinator that owns the storage and
// recovery stack shared by every transaction: one file manager, one log
// manager, one buffer manager, one lock table. Connections are opened
// against it; it never holds a transaction of its own.
type Database struct {
	cfg             Config
	fileManager     *file.Manager
	logManager      *log.Manager
	bufferManager   *buffer.Manager
	metadataManager *metadata.Manager
	lockTable       *concurrency.LockTable
	planner         *plan_impl.Planner
}

// Open creates or recovers a database rooted at dirName, using cfg for the
// block size, buffer pool size, and log file name.
func Open(dirName string, cfg Config) (*Database, error) {
	db := &Database{cfg: cfg}

	var err error
	if db.fileManager, err = file.NewManager(dirName, cfg.BlockSize); err != nil {
		return nil, err
	}
	if db.logManager, err = log.NewManager(db.fileManager, cfg.LogFile); err != nil {
		return nil, err
	}
	db.bufferManager = buffer.NewManager(db.fileManager, db.logManager, cfg.BufferPoolSize)
	db.lockTable = concurrency.NewLockTable()

	isNew := db.fileManager.IsNew()
	transaction := db.newTx()
	if isNew {
		enginelog.Logger().Info().Str("dir", dirName).Msg("creating new database")
	} else {
		enginelog.Logger().Info().Str("dir", dirName).Msg("recovering existing database")
		if err := transaction.Recover(); err != nil {
			return nil, err
		}
	}

	if db.metadataManager, err = metadata.NewManager(isNew, transaction); err != nil {
		return nil, err
	}

	queryPlanner := plan_impl.NewBasicQueryPlanner(db.metadataManager)
	updatePlanner := plan_impl.NewBasicUpdatePlanner(db.metadataManager)
	db.planner = plan_impl.NewPlanner(queryPlanner, updatePlanner)

	if err := transaction.Commit(); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenDefault opens a database at dirName using DefaultConfig.
func OpenDefault(dirName string) (*Database, error) {
	return Open(dirName, DefaultConfig())
}

func (db *Database) newTx() *tx.Transaction {
	return tx.NewTransaction(db.fileManager, db.logManager, db.bufferManager, db.lockTable)
}

// NewConnection opens a fresh Connection with its own transaction.
func (db *Database) NewConnection() *Connection {
	return &Connection{db: db, transaction: db.newTx()}
}

func (db *Database) MetadataManager() *metadata.Manager {
	return db.metadataManager
}

func (db *Database) Planner() *plan_impl.Planner {
	return db.planner
}
