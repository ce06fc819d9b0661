package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"stdlnotify/internal/journal"
)

// MustOpenJournal opens the journal configured at path and registers cleanup.
func MustOpenJournal(t testing.TB, path string) *journal.Store {
	t.Helper()

	store, err := journal.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// RecordDelivery stores a successful delivery for vidName and returns it.
func RecordDelivery(t testing.TB, store *journal.Store, vidName string) journal.Entry {
	t.Helper()

	status := "complete"
	entry := journal.Entry{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Endpoint:   "http://stdl.test",
		URL:        "http://stdl.test/api/stdl/done",
		Status:     &status,
		VidName:    &vidName,
		FSType:     "local",
		Outcome:    journal.OutcomeOK,
		StatusCode: 200,
	}
	if err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
