package kvstore

import (
	"context"
	"fmt"

	"mangabook/catalog-api/internal/config"
)

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "", "file":
		s, err = asStore(NewFileStore(cfg.File))
	case "postgres":
		s, err = asStore(OpenPostgres(ctx, cfg.DatabaseURL))
	case "sqlite":
		s, err = asStore(OpenSQLite(ctx, cfg.SQLitePath))
	case "redis":
		s, err = asStore(OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix))
	case "etcd":
		s, err = asStore(OpenEtcd(ctx, cfg.EtcdEndpoints, cfg.EtcdPrefix, 0))
	case "mongo":
		s, err = asStore(OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection))
	case "minio":
		s, err = asStore(OpenMinio(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return s, nil
}

// asStore keeps a nil concrete pointer from turning into a non-nil Store.
func asStore[T Store](s T, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
