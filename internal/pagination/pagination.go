// Package pagination implements the keyset list protocol shared by every
// paginated resource: an opaque cursor, a limit+1 lookahead, an optional
// pinned-first ordering tier, and a newest/oldest sort direction.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"

	MinLimit = 1
	MaxLimit = 100
)

var ErrInvalidLimit = errors.New("pagination: limit must be between 1 and 100")

// Key identifies a row's position in the list order. Pinned is nil for
// resources without a pin tier.
type Key struct {
	Pinned    *bool     `json:"pinned,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// Item is anything the engine can mint a next-page cursor from.
type Item interface {
	PageKey() Key
}

// Params selects one page of a resource list.
type Params struct {
	Limit  int
	Cursor string
	Sort   string // SortNewest or SortOldest; empty means newest
	Tiered bool   // pinned rows sort ahead of unpinned regardless of Sort
}

// Page is one page of items plus the cursor resuming after it.
// NextCursor is absent exactly when the matching set is exhausted.
type Page[T Item] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// EncodeCursor serializes a row key into the opaque wire form. URL-safe
// base64 so the token survives a query string untouched. Timestamps are
// normalized to UTC so the decoded predicate argument compares identically
// to what the driver stored.
func EncodeCursor(k Key) string {
	k.CreatedAt = k.CreatedAt.UTC()
	raw, _ := json.Marshal(k)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	k := new(Key)
	if err := json.Unmarshal(raw, k); err != nil {
		return nil, err
	}
	if k.ID == "" {
		return nil, errors.New("pagination: cursor missing id")
	}
	return k, nil
}

// List fetches one page from q, which carries any resource-specific filters
// already. The cursor predicate compares the full (tier, createdAt, id) key,
// so correctness does not depend on id values sorting by creation time.
//
// A cursor that fails to decode matches no rows: the result is an empty page
// with no next cursor, not an error.
func List[T Item](q *gorm.DB, p Params) (*Page[T], error) {
	if p.Limit < MinLimit || p.Limit > MaxLimit {
		return nil, ErrInvalidLimit
	}
	sort := p.Sort
	if sort == "" {
		sort = SortNewest
	}

	page := &Page[T]{Items: []T{}}

	if p.Cursor != "" {
		key, err := decodeCursor(p.Cursor)
		if err != nil {
			return page, nil
		}
		q = q.Where(cursorPredicate(p, sort), cursorArgs(p, key)...)
	}

	var rows []T
	if err := q.Order(orderClause(p, sort)).Limit(p.Limit + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	if len(rows) > p.Limit {
		rows = rows[:p.Limit]
		// The cursor names the last row returned; the predicate is strict,
		// so the next page starts at the row after it.
		next := EncodeCursor(rows[p.Limit-1].PageKey())
		page.NextCursor = &next
	}
	page.Items = rows
	return page, nil
}

// cursorPredicate selects rows strictly after the cursor key in list order.
// The timestamp comparison ties on id, and tiered resources compare the pin
// tier first so a page boundary inside the pinned tier resumes correctly.
func cursorPredicate(p Params, sort string) string {
	op := "<"
	if sort == SortOldest {
		op = ">"
	}
	timeCmp := fmt.Sprintf("created_at %s ? OR (created_at = ? AND id %s ?)", op, op)
	if !p.Tiered {
		return timeCmp
	}
	return fmt.Sprintf("is_pinned < ? OR (is_pinned = ? AND (%s))", timeCmp)
}

func cursorArgs(p Params, key *Key) []any {
	timeArgs := []any{key.CreatedAt, key.CreatedAt, key.ID}
	if !p.Tiered {
		return timeArgs
	}
	tier := false
	if key.Pinned != nil {
		tier = *key.Pinned
	}
	return append([]any{tier, tier}, timeArgs...)
}

func orderClause(p Params, sort string) string {
	dir := "DESC"
	if sort == SortOldest {
		dir = "ASC"
	}
	clause := fmt.Sprintf("created_at %s, id %s", dir, dir)
	if p.Tiered {
		clause = "is_pinned DESC, " + clause
	}
	return clause
}
