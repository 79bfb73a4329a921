package pkg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadCursor = errors.New("bad cursor")

// Cursor is a composite (created_at, id) feed position. Carrying the id as a
// tie-break keeps strict-inequality paging complete when two rows share a
// timestamp.
type Cursor struct {
	CreatedAt time.Time
	ID        uint64
}

func (c Cursor) IsZero() bool {
	return c.ID == 0 && c.CreatedAt.IsZero()
}

// Encode renders the cursor as "<unix_micro>_<id>".
func (c Cursor) Encode() string {
	return fmt.Sprintf("%d_%d", c.CreatedAt.UnixMicro(), c.ID)
}

// ParseCursor accepts an empty string as the zero cursor (first page).
func ParseCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	tsStr, idStr, ok := strings.Cut(s, "_")
	if !ok {
		return Cursor{}, ErrBadCursor
	}
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return Cursor{}, ErrBadCursor
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return Cursor{}, ErrBadCursor
	}
	return Cursor{CreatedAt: time.UnixMicro(ts), ID: id}, nil
}
