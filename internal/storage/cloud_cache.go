package storage

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/arthistory/depthviz/internal/pointcloud"
)

// CloudCache keeps projected point clouds so repeated views of a painting
// skip the image downloads
type CloudCache struct {
	cache *cache.Cache
}

// NewCloudCache creates a cache whose entries expire after ttl and are
// purged every cleanup interval
func NewCloudCache(ttl, cleanup time.Duration) *CloudCache {
	return &CloudCache{
		cache: cache.New(ttl, cleanup),
	}
}

func cloudKey(paintingID string, samples int) string {
	return paintingID + "#" + strconv.Itoa(samples)
}

func (c *CloudCache) Set(paintingID string, samples int, points []pointcloud.Point) {
	c.cache.Set(cloudKey(paintingID, samples), points, cache.DefaultExpiration)
}

func (c *CloudCache) Get(paintingID string, samples int) ([]pointcloud.Point, bool) {
	if x, found := c.cache.Get(cloudKey(paintingID, samples)); found {
		return x.([]pointcloud.Point), true
	}
	return nil, false
}

func (c *CloudCache) Delete(paintingID string, samples int) {
	c.cache.Delete(cloudKey(paintingID, samples))
}

// Flush drops every cached cloud
func (c *CloudCache) Flush() {
	c.cache.Flush()
}
