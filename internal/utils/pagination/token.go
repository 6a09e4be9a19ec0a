package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeLedgerCursor creates an opaque base64 token from a ledger position.
func EncodeLedgerCursor(cursor domain.LedgerCursor) string {
	tokenStr := fmt.Sprintf("%s|%d", cursor.PostingDate.UTC().Format(timeFormat), cursor.Seq)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeLedgerCursor parses a token produced by EncodeLedgerCursor.
func DecodeLedgerCursor(token string) (domain.LedgerCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	postingDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (posting date parse): %w", err)
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (seq parse): %w", err)
	}

	return domain.LedgerCursor{PostingDate: postingDate, Seq: seq}, nil
}
