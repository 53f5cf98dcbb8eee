package audit_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/audit"
	"condogov/pkg/requestcontext"
)

type PublisherSuite struct {
	suite.Suite
	store *audit.InMemoryStore
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.store = audit.NewInMemory()
}

// ============================================================================
// Synchronous delivery
// ============================================================================

func (s *PublisherSuite) TestEmitAppendsImmediately() {
	publisher := audit.NewPublisher(s.store, slog.Default())
	processID := id.ProcessID(uuid.New())

	publisher.Emit(context.Background(), audit.Event{
		StakeholderID: id.StakeholderID(uuid.New()),
		ProcessID:     processID,
		Action:        audit.ActionProcessCreated,
		Detail:        "Manutenção de Elevadores",
	})

	events, err := publisher.List(context.Background(), processID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionProcessCreated, events[0].Action)
	s.Equal("Manutenção de Elevadores", events[0].Detail)
}

func (s *PublisherSuite) TestEmitFillsTimestampFromRequestClock() {
	publisher := audit.NewPublisher(s.store, slog.Default())
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	processID := id.ProcessID(uuid.New())

	publisher.Emit(ctx, audit.Event{ProcessID: processID, Action: audit.ActionVersionCreated})

	events, err := publisher.List(ctx, processID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.True(at.Equal(events[0].Timestamp))
}

func (s *PublisherSuite) TestEmitKeepsExplicitTimestamp() {
	publisher := audit.NewPublisher(s.store, slog.Default())
	explicit := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	processID := id.ProcessID(uuid.New())

	publisher.Emit(context.Background(), audit.Event{
		Timestamp: explicit,
		ProcessID: processID,
		Action:    audit.ActionVersionApproved,
	})

	events, err := publisher.List(context.Background(), processID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.True(explicit.Equal(events[0].Timestamp))
}

// ============================================================================
// Buffered delivery
// ============================================================================

func (s *PublisherSuite) TestBufferedEventsDrainThroughRun() {
	publisher := audit.NewPublisher(s.store, slog.Default()).WithAsyncBuffer(8)
	processID := id.ProcessID(uuid.New())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = publisher.Run(ctx)
	}()

	for i := 0; i < 3; i++ {
		publisher.Emit(context.Background(), audit.Event{
			ProcessID: processID,
			Action:    audit.ActionVersionSubmitted,
		})
	}

	s.Eventually(func() bool {
		events, err := publisher.List(context.Background(), processID)
		return err == nil && len(events) == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func (s *PublisherSuite) TestFullBufferDropsInsteadOfBlocking() {
	// No Run worker draining, so the channel fills up.
	publisher := audit.NewPublisher(s.store, slog.Default()).WithAsyncBuffer(1)
	processID := id.ProcessID(uuid.New())

	for i := 0; i < 5; i++ {
		publisher.Emit(context.Background(), audit.Event{
			ProcessID: processID,
			Action:    audit.ActionProcessUpdated,
		})
	}

	events, err := publisher.List(context.Background(), processID)
	s.Require().NoError(err)
	s.Empty(events, "nothing should reach the store without a worker")
}

func (s *PublisherSuite) TestRunWithoutBufferReturnsImmediately() {
	publisher := audit.NewPublisher(s.store, slog.Default())
	s.NoError(publisher.Run(context.Background()))
}
