package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/torontoai/parley/core"
	"github.com/torontoai/parley/internal/testutil"
	"github.com/torontoai/parley/protocol"
)

// loopProtocol accepts "note" messages forever and only completes on an
// explicit "finish".
func loopProtocol() *protocol.Protocol {
	return testutil.NewProtocolBuilder("loop", "1.0").
		Initial("open", "Accepting notes").
		Terminal("closed", "Finished").
		Accept("open", "note", "finish").
		Transition("open", "note", "open").
		Transition("open", "finish", "closed").
		Build()
}

func TestConcurrentDeliveriesToOneConversation(t *testing.T) {
	mgr := New()
	require.NoError(t, mgr.RegisterProtocol(loopProtocol()))

	created, err := mgr.CreateConversation("loop", "1.0", testParticipants())
	require.NoError(t, err)
	id := created.ConversationID

	const workers = 8
	const perWorker = 25

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				msg := testutil.NewMessageBuilder("note").From("agent1", "requester").Build()
				if _, err := mgr.AddMessage(id, msg); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	conv, err := mgr.GetConversation(id)
	require.NoError(t, err)
	assert.Len(t, conv.History, workers*perWorker)
	assert.Equal(t, "open", conv.CurrentStateID)
	assert.Equal(t, core.StatusActive, conv.Status)

	// Every accepted message must appear exactly once.
	ids := map[string]int{}
	for _, rec := range conv.History {
		ids[rec.MessageID]++
	}
	for mid, n := range ids {
		assert.Equal(t, 1, n, "message %s recorded %d times", mid, n)
	}
}

func TestConcurrentCreates(t *testing.T) {
	mgr := New()
	require.NoError(t, mgr.RegisterProtocol(loopProtocol()))

	const workers = 20
	const perWorker = 5

	var mu sync.Mutex
	ids := map[string]bool{}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				created, err := mgr.CreateConversation("loop", "1.0", testParticipants())
				if err != nil {
					return err
				}
				mu.Lock()
				ids[created.ConversationID] = true
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, ids, workers*perWorker, "conversation ids must be unique")
	assert.Equal(t, workers*perWorker, mgr.ActiveCount())
}

func TestArchiveDuringTraffic(t *testing.T) {
	mgr := New()
	require.NoError(t, mgr.RegisterProtocol(loopProtocol()))

	const conversations = 10
	ids := make([]string, 0, conversations)
	for i := 0; i < conversations; i++ {
		created, err := mgr.CreateConversation("loop", "1.0", testParticipants())
		require.NoError(t, err)
		ids = append(ids, created.ConversationID)
	}

	var g errgroup.Group

	// One goroutine archives everything while others keep sending.
	g.Go(func() error {
		for _, id := range ids {
			if err := mgr.ArchiveConversation(id); err != nil {
				return err
			}
			time.Sleep(time.Millisecond)
		}
		return nil
	})

	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				id := ids[i%len(ids)]
				msg := testutil.NewMessageBuilder("note").From("agent1", "requester").Build()
				_, err := mgr.AddMessage(id, msg)
				if err != nil && !errors.Is(err, core.ErrConversationNotFound) {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 0, mgr.ActiveCount())
	assert.Equal(t, conversations, mgr.ArchivedCount())

	// Nothing was lost: every conversation is readable and immutable.
	for _, id := range ids {
		conv, err := mgr.GetConversation(id)
		require.NoError(t, err)
		assert.Equal(t, id, conv.ID)
	}
}

func TestSweepDuringTraffic(t *testing.T) {
	days := float64(20*time.Millisecond) / float64(24*time.Hour)
	mgr := New(WithAutoArchiveDays(days))
	require.NoError(t, mgr.RegisterProtocol(loopProtocol()))

	const conversations = 5
	ids := make([]string, 0, conversations)
	for i := 0; i < conversations; i++ {
		created, err := mgr.CreateConversation("loop", "1.0", testParticipants())
		require.NoError(t, err)
		ids = append(ids, created.ConversationID)
	}

	var g errgroup.Group

	g.Go(func() error {
		for i := 0; i < 20; i++ {
			mgr.AutoArchiveOldConversations()
			time.Sleep(5 * time.Millisecond)
		}
		return nil
	})

	for w := 0; w < 3; w++ {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				id := ids[i%len(ids)]
				msg := testutil.NewMessageBuilder("note").From("agent1", "requester").Build()
				_, err := mgr.AddMessage(id, msg)
				if err != nil && !errors.Is(err, core.ErrConversationNotFound) {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Every conversation sits in exactly one map and stays readable.
	assert.Equal(t, conversations, mgr.ActiveCount()+mgr.ArchivedCount())
	for _, id := range ids {
		_, err := mgr.GetConversation(id)
		require.NoError(t, err)
	}
}
