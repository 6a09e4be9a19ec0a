package lock

import "fmt"

const keyPrefix = "ledger"

// EntryKey is the lock key guarding posting operations on one journal entry.
func EntryKey(entryID string) string {
	return fmt.Sprintf("%s:journal:%s:lock", keyPrefix, entryID)
}
