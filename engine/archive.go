package engine

import (
	"context"
	"sort"
	"time"

	"github.com/torontoai/parley/conversation"
	"github.com/torontoai/parley/core"
	"github.com/torontoai/parley/metrics"
)

// ArchiveConversation moves an active conversation into the archive. The
// conversation becomes immutable and invisible to AddMessage but stays
// readable through GetConversation and GetAgentConversations. Archiving an
// unknown or already archived conversation returns
// core.ErrConversationNotFound.
func (m *Manager) ArchiveConversation(conversationID string) error {
	m.mu.Lock()
	conv, ok := m.active[conversationID]
	if !ok {
		m.mu.Unlock()
		return core.ErrConversationNotFound
	}
	activeN, archivedN := m.moveToArchiveLocked(conversationID, conv)
	m.mu.Unlock()

	m.finishArchive(conv, conversationID, metrics.ReasonManual, activeN, archivedN)
	return nil
}

// moveToArchiveLocked flags the conversation and moves it between maps.
// The flag goes first so a delivery racing the move gets a definite
// rejection instead of mutating a conversation the archive now owns.
// Callers hold m.mu.
func (m *Manager) moveToArchiveLocked(conversationID string, conv *conversation.Conversation) (activeN, archivedN int) {
	conv.Archive()
	delete(m.active, conversationID)
	m.archived[conversationID] = conv
	return len(m.active), len(m.archived)
}

func (m *Manager) finishArchive(conv *conversation.Conversation, conversationID, reason string, activeN, archivedN int) {
	m.metrics.RecordConversationArchived(conv.ProtocolID, reason)
	m.metrics.SetActiveConversations(activeN)
	m.metrics.SetArchivedConversations(archivedN)
	m.logger.Info("conversation archived", "conversation_id", conversationID, "reason", reason)
	m.runCallbacks(CallbackOnArchive, &CallbackContext{
		ConversationID: conversationID,
		ProtocolID:     conv.ProtocolID,
		CallbackType:   CallbackOnArchive,
		Metadata:       map[string]interface{}{"reason": reason},
	})
}

// AutoArchiveOldConversations archives every active conversation whose last
// update is older than the configured staleness threshold. It returns the
// archived ids in sorted order. Staleness is rechecked under the lock, so a
// conversation that receives traffic between the scan and the move stays
// active until a later sweep.
func (m *Manager) AutoArchiveOldConversations() []string {
	start := time.Now()
	cutoff := start.Add(-m.staleAfter())

	m.mu.RLock()
	scanned := len(m.active)
	stale := make([]string, 0, scanned)
	for id, conv := range m.active {
		if conv.LastUpdated().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()
	sort.Strings(stale)

	archived := make([]string, 0, len(stale))
	for _, id := range stale {
		if m.archiveIfStale(id, cutoff) {
			archived = append(archived, id)
		}
	}
	if len(archived) > 0 {
		m.logger.Info("archive sweep completed", "scanned", scanned, "archived", len(archived), "duration", time.Since(start))
	}
	return archived
}

func (m *Manager) archiveIfStale(conversationID string, cutoff time.Time) bool {
	m.mu.Lock()
	conv, ok := m.active[conversationID]
	if !ok || !conv.LastUpdated().Before(cutoff) {
		m.mu.Unlock()
		return false
	}
	activeN, archivedN := m.moveToArchiveLocked(conversationID, conv)
	m.mu.Unlock()

	m.finishArchive(conv, conversationID, metrics.ReasonAge, activeN, archivedN)
	return true
}

func (m *Manager) staleAfter() time.Duration {
	return time.Duration(m.config.AutoArchiveDays * 24 * float64(time.Hour))
}

// RunArchiveLoop runs archival sweeps on the given interval until ctx is
// cancelled. It blocks and should usually be started in its own goroutine:
//
//	go mgr.RunArchiveLoop(ctx, time.Hour)
//
// A non-positive interval falls back to one hour.
func (m *Manager) RunArchiveLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.AutoArchiveOldConversations()
		}
	}
}
