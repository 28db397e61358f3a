package dao

import (
	"context"
	"errors"
	"time"

	"navgrid/nav"
	"navgrid/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisGridKeyPrefix key前缀
const RedisGridKeyPrefix = "NAVGRID"

// GridCacheExpireTime 网格缓存过期时间
const GridCacheExpireTime = time.Hour

func (d *Dao) GetRedisGridKey(identifier string) string {
	return RedisGridKeyPrefix + ":GRID:" + identifier
}

// 基于redis的网格快照旁路缓存

func (d *Dao) cacheGridRedis(gridData *nav.GridData) {
	if d.redis == nil {
		return
	}
	data, err := msgpack.Marshal(gridData)
	if err != nil {
		logger.Error("marshal grid data error: %v", err)
		return
	}
	err = d.redis.Set(context.TODO(), d.GetRedisGridKey(gridData.Identifier), data, GridCacheExpireTime).Err()
	if err != nil {
		logger.Error("redis set grid error: %v", err)
	}
}

func (d *Dao) queryGridRedis(identifier string) *nav.GridData {
	if d.redis == nil {
		return nil
	}
	data, err := d.redis.Get(context.TODO(), d.GetRedisGridKey(identifier)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("redis get grid error: %v", err)
		}
		return nil
	}
	gridData := new(nav.GridData)
	err = msgpack.Unmarshal(data, gridData)
	if err != nil {
		logger.Error("unmarshal grid data error: %v", err)
		return nil
	}
	return gridData
}

func (d *Dao) evictGridRedis(identifier string) {
	if d.redis == nil {
		return
	}
	err := d.redis.Del(context.TODO(), d.GetRedisGridKey(identifier)).Err()
	if err != nil {
		logger.Error("redis del grid error: %v", err)
	}
}
