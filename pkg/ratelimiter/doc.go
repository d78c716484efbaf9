// Package ratelimiter throttles requests with a token bucket.
//
// A Bucket draws from a Store. MemoryStore keeps buckets in process and
// RedisStore shares them between instances with an atomic Lua script.
// Denied requests do not drain the bucket further.
//
//	store := ratelimiter.NewMemoryStore()
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP("login"), log)).Post("/auth", h)
package ratelimiter
