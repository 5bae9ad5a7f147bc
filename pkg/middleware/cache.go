package middleware

import (
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
)

// CacheByUser caches responses keyed by URI and the logged in user so
// one account's cached response can never be served to another. Must
// run after the JWT middleware, requests without a userID are never
// cached
func CacheByUser(store persist.CacheStore, expire time.Duration) gin.HandlerFunc {
	return cache.Cache(store, expire,
		cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
			userID := c.GetString("userID")
			if userID == "" {
				return false, cache.Strategy{}
			}

			return true, cache.Strategy{
				CacheKey: c.Request.RequestURI + ":" + userID,
			}
		}),
	)
}
