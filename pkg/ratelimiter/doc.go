// Package ratelimiter implements a token bucket limiter with memory and Redis
// backends and an HTTP middleware keyed by client IP.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb, ""), cfg)
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP, log)).Post("/one-tap", h)
//
// A request that would take the bucket below zero is denied and consumes nothing.
package ratelimiter
