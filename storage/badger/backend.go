package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend wraps the BadgerDB instance shared by the ingredient and chunk
// repositories. All catalog data lives in one database so a record and its
// index chunks can be replaced in a single transaction.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter forwards badger's internal logging to slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Errorf(msg string, items ...any)   { a.logger.Error(fmt.Sprintf(msg, items...)) }
func (a *slogAdapter) Warningf(msg string, items ...any) { a.logger.Warn(fmt.Sprintf(msg, items...)) }
func (a *slogAdapter) Infof(msg string, items ...any)    { a.logger.Info(fmt.Sprintf(msg, items...)) }
func (a *slogAdapter) Debugf(msg string, items ...any)   { a.logger.Debug(fmt.Sprintf(msg, items...)) }

// OpenBackend opens the catalog database at filePath, creating the
// directory when needed. With inMemory set, nothing touches disk; tests
// and one-shot tooling use that mode.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	logger := slog.Default().With("component", "storage")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(filePath); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &slogAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether the database has been closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a BadgerDB transaction. The transaction is
// discarded when fn returns an error; fn is responsible for committing
// write transactions.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// WithTransaction implements the storage.Repository transaction contract.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
