package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	scrapeLockKey    = "scrape:lock"
	lockPollInterval = 200 * time.Millisecond
)

// ErrScrapeBusy 在等待时间内没有拿到采集锁
var ErrScrapeBusy = errors.New("storage: another scrape is in progress")

// 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LockScrape 获取全局采集锁，保证多个实例（API、定时任务）对源站同时只有一次采集。
// 最多等待 wait；Redis 不可用时放行并返回空操作的 release。
func (s *Store) LockScrape(ctx context.Context, ttl, wait time.Duration) (func(), error) {
	noop := func() {}
	if s == nil || s.Redis == nil {
		return noop, nil
	}

	token := uuid.NewString()
	deadline := time.Now().Add(wait)
	for {
		ok, err := s.Redis.SetNX(ctx, scrapeLockKey, token, ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Printf("warn: scrape lock unavailable, continuing without it: %v", err)
			return noop, nil
		}
		if ok {
			return func() {
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := releaseScript.Run(rctx, s.Redis, []string{scrapeLockKey}, token).Err(); err != nil {
					log.Printf("warn: release scrape lock: %v", err)
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrScrapeBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}
