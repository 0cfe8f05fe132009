// Package cache provides a generic in-memory TTL cache with stampede protection.
//
// Misses for the same key are collapsed with singleflight, so a burst of
// requests for a scene that is not in memory loads it from the database once.
//
//	scenes := cache.New[*scene.Scene](5 * time.Minute)
//	s, err := scenes.GetOrLoad(ctx, name, func(ctx context.Context) (*scene.Scene, error) {
//	    return repo.Load(ctx, name)
//	})
package cache
