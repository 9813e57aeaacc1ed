package tracking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Only first-page results are cached; TTL is short because the list is
// append-heavy and totalCount goes stale quickly.
const cacheTTL = 15 * time.Second

func cacheKeyList(f Filter) string {
	from := ""
	if f.From != nil {
		from = f.From.UTC().Format(time.RFC3339)
	}
	to := ""
	if f.To != nil {
		to = f.To.UTC().Format(time.RFC3339)
	}
	typ := ""
	if f.Type != nil {
		typ = string(*f.Type)
	}

	raw := fmt.Sprintf("user=%s|type=%s|from=%s|to=%s|desc=%t|ps=%d",
		f.UserID, typ, from, to, f.Descending, f.PageSize)

	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("events:list:%s", hex.EncodeToString(hash[:]))
}
