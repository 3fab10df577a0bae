package helpers

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// FeedCursor is the keyset position of the last item on a page. Feed pages
// are ordered by (created_at DESC, id DESC); the cursor selects strictly
// older rows.
type FeedCursor struct {
	CreatedAt time.Time
	ID        int64
}

// EncodeFeedCursor renders an opaque page token for the given position.
func EncodeFeedCursor(c FeedCursor) string {
	raw := fmt.Sprintf("%d:%d", c.CreatedAt.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeFeedCursor parses a page token. An empty token means "first page".
func DecodeFeedCursor(token string) (*FeedCursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor")
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor id: %w", err)
	}

	return &FeedCursor{CreatedAt: time.Unix(0, nanos), ID: id}, nil
}

// ParseLimitParam extracts and clamps the "limit" query parameter.
func ParseLimitParam(c *gin.Context, defaultLimit, maxLimit int) int {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageSize
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageSize
	}

	limitStr := c.DefaultQuery("limit", strconv.Itoa(defaultLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
