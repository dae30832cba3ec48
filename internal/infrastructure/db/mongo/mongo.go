package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config selects the server and database backing the directory.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store is an open directory database: the repository plus the client that
// owns its connections.
type Store struct {
	*DirectoryRepository
	client *mongo.Client
	db     *mongo.Database
}

// Open connects, pings the server and creates the directory indexes. The
// timeout bounds the whole sequence.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New("open directory store: uri and database are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(openCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("open directory store: %w", err)
	}
	if err := client.Ping(openCtx, nil); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, fmt.Errorf("ping directory store: %w", err)
	}

	db := client.Database(cfg.Database)
	repo := NewDirectoryRepository(db)
	if err := repo.EnsureIndexes(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, err
	}
	return &Store{DirectoryRepository: repo, client: client, db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
