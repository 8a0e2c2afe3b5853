package suite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	// containers left behind by a crashed test run are killed by docker after this many seconds
	expireSeconds = 300

	startTimeout = 120 * time.Second
	testTimeout  = 30 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

var errShort = errors.New("redis integration tests are skipped in short mode")

// Redis - one throwaway redis container shared by all tests of a package.
// Start it from TestMain, hand out clean databases with Fresh and Close it when m.Run returns.
type Redis struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
	client   *redis.Client

	// unavailable explains why the container is missing, tests using it are skipped
	unavailable error
}

// StartRedis - runs the container and waits until it answers. Never fails: a missing docker daemon
// or short mode makes every Fresh call skip instead.
func StartRedis() *Redis {
	if testing.Short() {
		return &Redis{unavailable: errShort}
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return &Redis{unavailable: fmt.Errorf("could not connect to docker: %w", err)}
	}

	if err = pool.Client.Ping(); err != nil {
		return &Redis{unavailable: fmt.Errorf("docker is not reachable: %w", err)}
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return &Redis{unavailable: fmt.Errorf("could not start redis container: %w", err)}
	}

	// never returns error
	_ = resource.Expire(expireSeconds)

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})

	// redis inside the container may not accept connections yet
	pool.MaxWait = startTimeout
	if retryErr := pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); retryErr != nil {
		_ = client.Close()

		if purgeErr := pool.Purge(resource); purgeErr != nil {
			return &Redis{unavailable: fmt.Errorf("redis did not start: %w, purge failed: %w", retryErr, purgeErr)}
		}

		return &Redis{unavailable: fmt.Errorf("redis did not start: %w", retryErr)}
	}

	return &Redis{
		pool:     pool,
		resource: resource,
		client:   client,
	}
}

// Fresh - returns the shared client with an empty database, or skips the test when redis is unavailable.
func (that *Redis) Fresh(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	if that.unavailable != nil {
		t.Skip(that.unavailable.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)

	if err := that.client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}

	return ctx, that.client
}

// Close - stops the container. Safe to call when it never started.
func (that *Redis) Close() error {
	if that.unavailable != nil {
		return nil
	}

	clientErr := that.client.Close()
	purgeErr := that.pool.Purge(that.resource)

	return errors.Join(clientErr, purgeErr)
}
