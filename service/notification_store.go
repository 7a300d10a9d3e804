// Package service implements the notification store: the single source of
// truth for notification records on this device, persisted across restarts,
// scoped per authenticated user and observable by UI surfaces.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PigSoilPlus/pigsoil-notify/display"
	"github.com/PigSoilPlus/pigsoil-notify/internal/auth"
	"github.com/PigSoilPlus/pigsoil-notify/internal/utils"
	"github.com/PigSoilPlus/pigsoil-notify/push"
	"github.com/PigSoilPlus/pigsoil-notify/store"
	"github.com/PigSoilPlus/pigsoil-notify/types"
)

const (
	// MaxPerUser bounds how many records are kept for a single user. Saving
	// beyond the cap evicts that user's oldest records; other users are never
	// affected by someone else's cap.
	MaxPerUser = 100

	// DefaultStorageKey is the logical key under which the whole record
	// sequence persists.
	DefaultStorageKey = "pigsoil_notifications"
)

// Listener observes store mutations. Listeners receive no payload and are
// expected to re-query through GetByFilter or UnreadCount.
type Listener func()

// NotificationStore maintains the persisted notification sequence shared by
// every user who signs in on this device. All operations resolve the current
// user through the injected provider at call time, and every read-modify-write
// runs under one mutex so mutations never interleave.
//
// Operations that need an authenticated user return neutral values
// (nil/false/0/empty) when nobody is signed in. Storage failures are logged
// and degrade to empty reads or dropped writes; they never reach callers.
type NotificationStore struct {
	kv          store.KeyValue
	storageKey  string
	currentUser auth.UserProvider
	notifier    display.Notifier
	log         *zap.SugaredLogger

	mu sync.Mutex

	listenerMu     sync.Mutex
	listeners      map[int]Listener
	nextListenerID int

	initMu      sync.Mutex
	initialized bool

	// now stamps records at save time; replaced in tests.
	now func() int64
}

// NewNotificationStore creates a store over the given persistence backend.
// An empty storageKey selects DefaultStorageKey. notifier may be nil; the
// store then runs record-only (degraded mode, no system popups).
func NewNotificationStore(kv store.KeyValue, storageKey string, currentUser auth.UserProvider, notifier display.Notifier, log *zap.SugaredLogger) *NotificationStore {
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}
	return &NotificationStore{
		kv:          kv,
		storageKey:  storageKey,
		currentUser: currentUser,
		notifier:    notifier,
		log:         log,
		listeners:   make(map[int]Listener),
		now:         func() int64 { return time.Now().UnixMilli() },
	}
}

// Initialize wires the store to the push transport. Idempotent: a second call
// does not register the handler again. Returns false in degraded mode (no
// notifier available); records are still stored and queryable.
func (s *NotificationStore) Initialize(transport push.Transport) bool {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if !s.initialized {
		if transport != nil {
			transport.OnMessage(func(ctx context.Context, msg types.PushMessage) {
				s.HandleInbound(ctx, msg)
			})
		}
		s.initialized = true
	}

	if s.notifier == nil {
		s.log.Infow("No system notifier available, notification store running record-only")
		return false
	}
	return true
}

// AcceptsRecipient applies the inbound admission check: a payload carrying a
// recipientId is accepted only when it names the current user. A payload
// without one is accepted unconditionally so unscoped system broadcasts are
// not dropped.
func AcceptsRecipient(data map[string]string, currentUserID string) bool {
	recipient, ok := data[types.DataKeyRecipientID]
	if !ok || strings.TrimSpace(recipient) == "" {
		return true
	}
	return recipient == currentUserID
}

// HandleInbound processes one push payload: admission check, save, then
// best-effort display. Returns the stored record, or nil when the payload was
// rejected or could not be stored.
func (s *NotificationStore) HandleInbound(ctx context.Context, msg types.PushMessage) *types.NotificationRecord {
	if msg.Notification == nil {
		droppedTotal.WithLabelValues(dropReasonNoBody).Inc()
		s.log.Debugw("Ignoring push payload without notification body")
		return nil
	}

	userID := s.currentUser()
	if userID == "" {
		droppedTotal.WithLabelValues(dropReasonNoUser).Inc()
		return nil
	}
	if !AcceptsRecipient(msg.Data, userID) {
		droppedTotal.WithLabelValues(dropReasonWrongRecipient).Inc()
		s.log.Debugw("Ignoring push payload addressed to another user",
			"recipientId", msg.Data[types.DataKeyRecipientID])
		return nil
	}

	typ := types.NormalizeType(msg.Data[types.DataKeyType])
	record := s.Save(ctx, typ, msg.Notification.Title, msg.Notification.Body, msg.Data)
	if record == nil {
		return nil
	}

	if s.notifier != nil {
		if err := s.notifier.Display(record.Title, record.Message); err != nil {
			s.log.Warnw("Failed to display notification", "id", record.ID, "error", err)
		} else {
			displayedTotal.Inc()
		}
	}
	return record
}

// Save upserts a record for the current user. The id comes from the payload
// (data.notificationId, then data.id) when present, so redelivery of the same
// push updates in place instead of duplicating; otherwise a fresh id is
// generated. A new record goes to the front of the sequence, after which the
// per-user cap evicts that user's oldest overflow. Returns nil when nobody is
// signed in or the write was dropped.
func (s *NotificationStore) Save(ctx context.Context, typ types.NotificationType, title, message string, data map[string]string) *types.NotificationRecord {
	userID := s.currentUser()
	if userID == "" {
		droppedTotal.WithLabelValues(dropReasonNoUser).Inc()
		return nil
	}

	id := stableID(data)
	if id == "" {
		id = utils.GenerateNotificationID()
	}

	saved, ok := s.upsert(ctx, userID, id, typ, title, message, data)
	if !ok {
		droppedTotal.WithLabelValues(dropReasonStorage).Inc()
		return nil
	}

	savedTotal.Inc()
	mutationsTotal.WithLabelValues("save").Inc()
	s.notifyListeners()
	return &saved
}

// upsert runs the read-modify-write for Save under the store mutex and returns
// a copy of the saved record. The copy is taken before the cap runs: a
// persisted document can already hold more than MaxPerUser records for the
// user (written by an older agent version or another writer sharing the
// backend), in which case the cap may evict the upserted record itself.
func (s *NotificationStore) upsert(ctx context.Context, userID, id string, typ types.NotificationType, title, message string, data map[string]string) (types.NotificationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	now := s.now()

	var saved types.NotificationRecord
	if idx := findRecord(records, userID, id); idx >= 0 {
		// Upsert: overwrite display fields and merge data, but never reset
		// IsRead; a redelivered payload must not resurrect an unread badge.
		existing := &records[idx]
		existing.Type = typ
		existing.Title = title
		existing.Message = message
		existing.Timestamp = now
		if len(data) > 0 {
			if existing.Data == nil {
				existing.Data = make(map[string]string, len(data))
			}
			for k, v := range data {
				existing.Data[k] = v
			}
		}
		saved = *existing
	} else {
		record := types.NotificationRecord{
			ID:        id,
			UserID:    userID,
			Type:      typ,
			Title:     title,
			Message:   message,
			Timestamp: now,
			Data:      cloneData(data),
		}
		records = append([]types.NotificationRecord{record}, records...)
		saved = record
	}

	records = capUser(records, userID)
	if !s.persist(ctx, records) {
		return types.NotificationRecord{}, false
	}
	return saved, true
}

// MarkAsRead marks the current user's record as read. Returns false when the
// record does not exist for this user; that is a legitimate outcome (e.g. a
// double click), not an error.
func (s *NotificationStore) MarkAsRead(ctx context.Context, id string) bool {
	userID := s.currentUser()
	if userID == "" {
		return false
	}

	s.mu.Lock()
	records := s.load(ctx)
	idx := findRecord(records, userID, id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	records[idx].IsRead = true
	if !s.persist(ctx, records) {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	mutationsTotal.WithLabelValues("mark_read").Inc()
	s.notifyListeners()
	return true
}

// MarkAllAsRead marks every unread record of the current user as read and
// returns how many changed. Other users' unread records are untouched.
func (s *NotificationStore) MarkAllAsRead(ctx context.Context) int {
	userID := s.currentUser()
	if userID == "" {
		return 0
	}

	s.mu.Lock()
	records := s.load(ctx)
	changed := 0
	for i := range records {
		if records[i].UserID == userID && !records[i].IsRead {
			records[i].IsRead = true
			changed++
		}
	}
	if changed == 0 {
		s.mu.Unlock()
		return 0
	}
	if !s.persist(ctx, records) {
		s.mu.Unlock()
		return 0
	}
	s.mu.Unlock()

	mutationsTotal.WithLabelValues("mark_all_read").Inc()
	s.notifyListeners()
	return changed
}

// Delete removes the current user's record with the given id. Returns whether
// a deletion occurred.
func (s *NotificationStore) Delete(ctx context.Context, id string) bool {
	userID := s.currentUser()
	if userID == "" {
		return false
	}

	s.mu.Lock()
	records := s.load(ctx)
	idx := findRecord(records, userID, id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	records = append(records[:idx], records[idx+1:]...)
	if !s.persist(ctx, records) {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	mutationsTotal.WithLabelValues("delete").Inc()
	s.notifyListeners()
	return true
}

// ClearAll removes every record belonging to the current user, leaving other
// users' records intact. Returns the number removed.
func (s *NotificationStore) ClearAll(ctx context.Context) int {
	userID := s.currentUser()
	if userID == "" {
		return 0
	}

	s.mu.Lock()
	records := s.load(ctx)
	kept := records[:0:0]
	removed := 0
	for _, r := range records {
		if r.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	if !s.persist(ctx, kept) {
		s.mu.Unlock()
		return 0
	}
	s.mu.Unlock()

	mutationsTotal.WithLabelValues("clear_all").Inc()
	s.notifyListeners()
	return removed
}

// UnreadCount returns the current user's unread record count, always computed
// from the persisted state at call time.
func (s *NotificationStore) UnreadCount(ctx context.Context) int {
	userID := s.currentUser()
	if userID == "" {
		return 0
	}

	s.mu.Lock()
	records := s.load(ctx)
	s.mu.Unlock()

	count := 0
	for _, r := range records {
		if r.UserID == userID && !r.IsRead {
			count++
		}
	}
	return count
}

// GetByFilter returns the current user's records matching the filter, unread
// first, each group newest first.
func (s *NotificationStore) GetByFilter(ctx context.Context, filter types.Filter) []types.NotificationRecord {
	userID := s.currentUser()
	if userID == "" {
		return nil
	}

	s.mu.Lock()
	records := s.load(ctx)
	s.mu.Unlock()

	result := make([]types.NotificationRecord, 0, len(records))
	for _, r := range records {
		if r.UserID == userID && r.Matches(filter) {
			result = append(result, r)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsRead != result[j].IsRead {
			return !result[i].IsRead
		}
		return result[i].Timestamp > result[j].Timestamp
	})
	return result
}

// AddListener registers a mutation observer and returns its registration id.
func (s *NotificationStore) AddListener(l Listener) int {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = l
	return id
}

// RemoveListener drops the observer with the given registration id.
func (s *NotificationStore) RemoveListener(id int) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	delete(s.listeners, id)
}

// notifyListeners invokes every listener in registration order. A panicking
// listener is logged and isolated; the remaining listeners still run.
func (s *NotificationStore) notifyListeners() {
	s.listenerMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	snapshot := make([]Listener, len(ids))
	for i, id := range ids {
		snapshot[i] = s.listeners[id]
	}
	s.listenerMu.Unlock()

	for _, l := range snapshot {
		s.invokeListener(l)
	}
}

func (s *NotificationStore) invokeListener(l Listener) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("Notification listener panicked", "panic", r)
		}
	}()
	l()
}

// load reads the whole persisted sequence. A missing key, failed read or
// corrupt document all degrade to an empty sequence.
func (s *NotificationStore) load(ctx context.Context) []types.NotificationRecord {
	raw, err := s.kv.Get(ctx, s.storageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warnw("Notification storage read failed, treating as empty", "error", err)
		}
		return nil
	}

	var records []types.NotificationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.log.Warnw("Corrupt notification storage, treating as empty", "error", err)
		return nil
	}
	return records
}

// persist writes the whole sequence back. A failed write is logged and
// dropped; the previous persisted state stays authoritative.
func (s *NotificationStore) persist(ctx context.Context, records []types.NotificationRecord) bool {
	data, err := json.Marshal(records)
	if err != nil {
		s.log.Errorw("Failed to encode notification records", "error", err)
		return false
	}
	if err := s.kv.Set(ctx, s.storageKey, string(data)); err != nil {
		s.log.Warnw("Notification storage write dropped", "error", err)
		return false
	}
	return true
}

// stableID extracts a sender-supplied identifier from the payload metadata.
func stableID(data map[string]string) string {
	if id := strings.TrimSpace(data[types.DataKeyNotificationID]); id != "" {
		return id
	}
	return strings.TrimSpace(data[types.DataKeyID])
}

// findRecord locates the record with the given (userID, id) pair, or -1.
func findRecord(records []types.NotificationRecord, userID, id string) int {
	for i, r := range records {
		if r.UserID == userID && r.ID == id {
			return i
		}
	}
	return -1
}

// capUser enforces MaxPerUser for one user: the first MaxPerUser of that
// user's records in stored order (newest first) survive, the rest are
// evicted. Records of other users pass through untouched.
func capUser(records []types.NotificationRecord, userID string) []types.NotificationRecord {
	kept := records[:0:0]
	seen := 0
	evicted := 0
	for _, r := range records {
		if r.UserID == userID {
			seen++
			if seen > MaxPerUser {
				evicted++
				continue
			}
		}
		kept = append(kept, r)
	}
	if evicted > 0 {
		evictedTotal.Add(float64(evicted))
	}
	return kept
}

// cloneData copies payload metadata so the stored record never aliases the
// caller's map.
func cloneData(data map[string]string) map[string]string {
	if len(data) == 0 {
		return nil
	}
	clone := make(map[string]string, len(data))
	for k, v := range data {
		clone[k] = v
	}
	return clone
}
