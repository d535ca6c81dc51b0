package backend

import (
	"context"
	"fmt"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
	"github.com/santty1906/finanzas-pro-plus/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(config Config) (*BackendResult, error) {
	src, err := newCSVSource(config.CSVPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CSV backend: %w", err)
	}

	f.logger.Info("Initialized CSV backend", log.FieldFile, config.CSVPath)

	return &BackendResult{
		Source:  src,
		Cleanup: nil, // the file is reopened per operation
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", log.FieldFile, config.SQLiteDBPath)

	return &BackendResult{
		Source:  &sqliteSource{repo: repo},
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Source:  newMemorySource(nil),
		Cleanup: nil,
	}, nil
}

// sqliteSource adapts the repository to the Source interface.
type sqliteSource struct {
	repo *storage.SQLiteRepository
}

func (s *sqliteSource) List(ctx context.Context, p ledger.Period) ([]core.Transaction, error) {
	return s.repo.List(ctx, p)
}

func (s *sqliteSource) Append(ctx context.Context, tx core.Transaction) error {
	_, err := s.repo.Append(ctx, tx)
	return err
}
