package monitor

import (
	"fmt"
	"time"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/errors"
	"github.com/printwatch/topbar/internal/logger"
)

// DraftStore owns the persisted settings document and hands out edit
// sessions. A session is the only way to mutate the persisted state: every
// change goes through its draft operations and becomes durable on Commit or
// vanishes on Rollback.
type DraftStore struct {
	persisted *config.Settings
	session   *Session
	log       logger.Logger
	now       func() time.Time
}

// Session is one open settings-dialog transaction. It works on a deep copy
// of the persisted document, so the live dashboard can keep rendering the
// persisted state (or preview the working copy) while edits are in flight.
type Session struct {
	store    *DraftStore
	snapshot *config.Settings
	work     *config.Settings
	created  []string
	closed   bool
}

// NewDraftStore wraps a persisted settings document.
func NewDraftStore(persisted *config.Settings, log logger.Logger) *DraftStore {
	if log == nil {
		log = logger.Noop()
	}
	return &DraftStore{
		persisted: persisted,
		log:       log,
		now:       time.Now,
	}
}

// Persisted returns the current durable settings document.
func (st *DraftStore) Persisted() *config.Settings {
	return st.persisted
}

// Begin opens an edit session over the persisted settings. Re-entering while
// a session is already open returns the existing session unchanged, so a
// double dialog-open cannot duplicate drafts.
func (st *DraftStore) Begin() *Session {
	if st.session != nil && !st.session.closed {
		st.log.Debug("settings session already open, reusing")
		return st.session
	}
	st.session = &Session{
		store:    st,
		snapshot: st.persisted.Clone(),
		work:     st.persisted.Clone(),
	}
	return st.session
}

// InSession reports whether an edit session is currently open.
func (st *DraftStore) InSession() bool {
	return st.session != nil && !st.session.closed
}

// Settings exposes the session's working document for editing and preview.
// Mutations made here are part of the transaction: committed on Commit,
// discarded on Rollback.
func (s *Session) Settings() *config.Settings {
	return s.work
}

// CreatedDrafts returns the ids created in this session, in creation order.
func (s *Session) CreatedDrafts() []string {
	return append([]string(nil), s.created...)
}

// CreateDraft allocates the lowest-numbered unused custom id, seeds it from
// the default settings template, and registers it as a pending draft.
func (s *Session) CreateDraft(template config.CustomMonitor) (ID, error) {
	if s.closed {
		return ID{}, errors.New(errors.ErrMonitor,
			"Settings session is closed", "")
	}

	idx := 0
	key := fmt.Sprintf("%s%d", CustomPrefix, idx)
	for {
		if _, taken := s.work.Custom[key]; !taken {
			break
		}
		idx++
		key = fmt.Sprintf("%s%d", CustomPrefix, idx)
	}

	template.IsDraftNew = true
	template.MarkedForDeletion = false
	if template.Name == "" {
		template.Name = fmt.Sprintf("Custom %d", idx)
	}
	s.work.Custom[key] = template
	s.created = append(s.created, key)

	s.store.log.Debug("created draft monitor %s", key)
	return CustomID(key), nil
}

// MarkForDeletion flags a custom monitor for removal on commit. Reversible
// via UnmarkForDeletion until the session closes.
func (s *Session) MarkForDeletion(id ID) error {
	return s.setDeletion(id, true)
}

// UnmarkForDeletion clears the deletion flag without data loss.
func (s *Session) UnmarkForDeletion(id ID) error {
	return s.setDeletion(id, false)
}

func (s *Session) setDeletion(id ID, marked bool) error {
	if s.closed {
		return errors.New(errors.ErrMonitor, "Settings session is closed", "")
	}
	if !id.IsCustom() {
		return errors.New(errors.ErrMonitor,
			fmt.Sprintf("Monitor %s is built in and cannot be deleted", id), "")
	}
	cm, ok := s.work.Custom[id.Custom]
	if !ok {
		return errors.New(errors.ErrMonitor,
			fmt.Sprintf("Unknown custom monitor %s", id), "")
	}
	cm.MarkedForDeletion = marked
	s.work.Custom[id.Custom] = cm
	return nil
}

// CloneSettings copies the shared display configuration from source to each
// target. Label and icon always stay, as do identity fields (name, command);
// fields the target schema does not carry are skipped.
func (s *Session) CloneSettings(source ID, targets ...ID) error {
	if s.closed {
		return errors.New(errors.ErrMonitor, "Settings session is closed", "")
	}

	srcShared, srcCustom, err := s.lookup(source)
	if err != nil {
		return err
	}

	for _, target := range targets {
		if target == source {
			continue
		}
		if target.IsCustom() {
			cm, ok := s.work.Custom[target.Custom]
			if !ok {
				s.store.log.Warn("clone target %s not found, skipping", target)
				continue
			}
			copySharedFields(&cm.MonitorConfig, srcShared)
			if srcCustom != nil {
				// Custom-only fields shared between two custom records.
				cm.IsTemperature = srcCustom.IsTemperature
				cm.Unit = srcCustom.Unit
				cm.PostCalc = srcCustom.PostCalc
				cm.WaitForPrint = srcCustom.WaitForPrint
				cm.Interval = srcCustom.Interval
			}
			s.work.Custom[target.Custom] = cm
			continue
		}

		m, ok := s.work.Monitors[target.String()]
		if !ok {
			s.store.log.Warn("clone target %s not found, skipping", target)
			continue
		}
		copySharedFields(&m, srcShared)
		s.work.Monitors[target.String()] = m
	}
	return nil
}

// lookup resolves an id to its shared config, plus the custom record when
// the id is custom.
func (s *Session) lookup(id ID) (config.MonitorConfig, *config.CustomMonitor, error) {
	if id.IsCustom() {
		cm, ok := s.work.Custom[id.Custom]
		if !ok {
			return config.MonitorConfig{}, nil, errors.New(errors.ErrMonitor,
				fmt.Sprintf("Unknown custom monitor %s", id), "")
		}
		return cm.MonitorConfig, &cm, nil
	}
	m, ok := s.work.Monitors[id.String()]
	if !ok {
		return config.MonitorConfig{}, nil, errors.New(errors.ErrMonitor,
			fmt.Sprintf("Unknown monitor %s", id), "")
	}
	return m, nil, nil
}

// copySharedFields copies every shared MonitorConfig field except the
// excluded label and icon.
func copySharedFields(dst *config.MonitorConfig, src config.MonitorConfig) {
	label, icon := dst.Label, dst.Icon
	appendNo := dst.AppendIconNumber
	*dst = src
	dst.Label = label
	dst.Icon = icon
	dst.AppendIconNumber = appendNo
}

// Commit makes the session's changes durable: drafts lose their new flag,
// deletion-marked records are purged, survivors get a fresh LastUpdated
// stamp, and the caller-observed on-screen order becomes the new SortOrder.
// Returns the new persisted document.
func (s *Session) Commit(onScreenOrder []string) *config.Settings {
	if s.closed {
		return s.store.persisted
	}

	final := s.work.Clone()
	nowMillis := s.store.now().UnixMilli()
	for key, cm := range final.Custom {
		if cm.MarkedForDeletion {
			delete(final.Custom, key)
			continue
		}
		cm.IsDraftNew = false
		cm.LastUpdated = nowMillis
		final.Custom[key] = cm
	}

	if onScreenOrder != nil {
		final.SortOrder = append([]string(nil), onScreenOrder...)
	}

	s.close(final)
	s.store.log.Info("settings committed: %d custom monitors", len(final.Custom))
	return final
}

// Rollback discards everything the session did: drafts created here are
// dropped, deletion marks are reverted, and edits to previously persisted
// records are undone by restoring the pre-session snapshot. Safe to call
// with zero edits.
func (s *Session) Rollback() *config.Settings {
	if s.closed {
		return s.store.persisted
	}
	restored := s.snapshot
	s.close(restored)
	s.store.log.Debug("settings session rolled back, %d drafts discarded", len(s.created))
	return restored
}

func (s *Session) close(result *config.Settings) {
	s.closed = true
	s.store.persisted = result
	s.store.session = nil
}
