// Package redis connects bluebird to Redis, the optional session backend.
//
// Connect parses a redis:// URL, then pings with retries until the server
// answers or the attempts run out. Healthcheck adapts a client to the
// readiness probe served by httpserver.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := session.NewRedisStore(client, session.WithRedisPrefix("session:"))
package redis
