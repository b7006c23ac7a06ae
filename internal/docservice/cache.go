package docservice

import (
	"time"

	"github.com/ordinalfs/ordinalfs/pkg/cache"
)

// tagCacheTTL bounds how stale a cached extractTags result can get when an
// invalidation is somehow missed; ordinary writes invalidate eagerly.
const tagCacheTTL = 10 * time.Minute

func tagCacheKey(root string) string { return "vfs:tags:" + root }

// invalidateTagCache drops the cached extractTags result for root. Every
// docservice method that can change which tags a tree yields — any create,
// write, paste, move, or tag rebuild — calls this on success (§5: "any
// cache ... must be invalidated on any write to the relevant subtree").
func (s *Service) invalidateTagCache() {
	cache.Del(tagCacheKey(s.root)) //nolint:errcheck
}
