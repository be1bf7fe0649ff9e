// Package redis connects to the Redis instance that backs the shared
// certificate cache.
//
//	client, err := redis.Connect(ctx, cfg)
//	store := jwt.NewRedisStore(client, jwt.DefaultRedisPrefix)
package redis
