package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	ctx context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *StoreSuite) TestInMemoryStoreIsBounded() {
	store := NewInMemoryStore(WithCapacity(3))

	for _, action := range []AuditEvent{EventPatronCreated, EventPatronUpdated, EventPatronBlocked, EventPatronUnblocked, EventPatronDeleted} {
		s.Require().NoError(store.Append(s.ctx, Event{PatronID: "alice", Action: string(action)}))
	}
	s.Equal(3, store.Len())

	events, err := store.ListByPatron(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal(string(EventPatronBlocked), events[0].Action)
	s.Equal(string(EventPatronUnblocked), events[1].Action)
	s.Equal(string(EventPatronDeleted), events[2].Action)
}

func (s *StoreSuite) TestInMemoryStoreDefaultCapacity() {
	store := NewInMemoryStore(WithCapacity(0))
	for range DefaultMemoryCapacity + 10 {
		s.Require().NoError(store.Append(s.ctx, Event{PatronID: "bob"}))
	}
	s.Equal(DefaultMemoryCapacity, store.Len())
}

func (s *StoreSuite) TestInMemoryStoreFiltersAndClears() {
	store := NewInMemoryStore(WithCapacity(4))
	s.Require().NoError(store.Append(s.ctx, Event{PatronID: "alice", Action: string(EventPatronCreated)}))
	s.Require().NoError(store.Append(s.ctx, Event{PatronID: "bob", Action: string(EventFeeCreated)}))

	events, err := store.ListByPatron(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(EventFeeCreated), events[0].Action)

	store.Clear()
	s.Zero(store.Len())
	events, err = store.ListByPatron(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *StoreSuite) TestLogStoreWritesAndRetainsNothing() {
	var buf bytes.Buffer
	store := NewLogStore(slog.New(slog.NewJSONHandler(&buf, nil)))

	ts := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(store.Append(s.ctx, Event{
		Timestamp: ts,
		RequestID: "req-1",
		PatronID:  "carol",
		Actor:     "fp-123",
		Action:    string(EventPatronBlocked),
		Outcome:   OutcomeSuccess,
	}))

	var record map[string]any
	s.Require().NoError(json.Unmarshal(buf.Bytes(), &record))
	s.Equal("audit event", record["msg"])
	s.Equal("audit", record["component"])
	s.Equal("patron_blocked", record["action"])
	s.Equal("success", record["outcome"])
	s.Equal("carol", record["patron_id"])
	s.Equal("fp-123", record["actor"])
	s.Equal("req-1", record["request_id"])
	s.Equal("2024-01-05T10:00:00Z", record["timestamp"])

	events, err := store.ListByPatron(s.ctx, "carol")
	s.Require().NoError(err)
	s.Empty(events)
}
