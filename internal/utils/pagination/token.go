package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
)

const timeFormat = time.RFC3339Nano

// Cursor is the keyset position of the last row of a page. Rows are ordered by
// date, then creation time, then id, all descending.
type Cursor struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken creates a base64 encoded token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.Date.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken. Malformed tokens are validation errors.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: base64 decode: %v", errInvalidToken, err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("%w: split", errInvalidToken)
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: date parse: %v", errInvalidToken, err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: created_at parse: %v", errInvalidToken, err)
	}
	return Cursor{Date: date, CreatedAt: createdAt, ID: parts[2]}, nil
}

// After reports whether a row at position c sorts after (comes on a later page than) the cursor.
func (cur Cursor) After(c Cursor) bool {
	if !c.Date.Equal(cur.Date) {
		return c.Date.Before(cur.Date)
	}
	if !c.CreatedAt.Equal(cur.CreatedAt) {
		return c.CreatedAt.Before(cur.CreatedAt)
	}
	return c.ID < cur.ID
}

var errInvalidToken = apperrors.NewValidationError("nextToken", "is not a valid pagination token")
