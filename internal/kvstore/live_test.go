package kvstore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Live backend tests run only when the matching env var points at a service.

func liveEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set, skipping live backend test", key)
	}
	return v
}

func liveCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func uniquePrefix(name string) string {
	return fmt.Sprintf("test-%s-%d", name, time.Now().UnixNano())
}

func TestRedisStoreLive(t *testing.T) {
	url := liveEnv(t, "TEST_REDIS_URL")
	s, err := OpenRedis(liveCtx(t), url, uniquePrefix("redis")+":")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runContract(t, s)
}

func TestEtcdStoreLive(t *testing.T) {
	endpoints := liveEnv(t, "TEST_ETCD_ENDPOINTS")
	s, err := OpenEtcd(liveCtx(t), strings.Split(endpoints, ","), "/"+uniquePrefix("etcd"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runContract(t, s)
}

func TestMongoStoreLive(t *testing.T) {
	uri := liveEnv(t, "TEST_MONGO_URI")
	s, err := OpenMongo(liveCtx(t), uri, "mangabook_test", uniquePrefix("mongo"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runContract(t, s)
}

func TestMinioStoreLive(t *testing.T) {
	endpoint := liveEnv(t, "TEST_MINIO_ENDPOINT")
	s, err := OpenMinio(liveCtx(t), MinioConfig{
		Endpoint:  endpoint,
		AccessKey: liveEnv(t, "TEST_MINIO_ACCESS_KEY"),
		SecretKey: liveEnv(t, "TEST_MINIO_SECRET_KEY"),
		Bucket:    uniquePrefix("minio"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runContract(t, s)
}
