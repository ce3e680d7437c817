package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Monticola-data/backend-kalendar/internal/appsheet"
	"github.com/Monticola-data/backend-kalendar/internal/models"
)

// bridgeFake is an in-memory stand-in for the store, mirroring its
// semantics: append-only notice log, last-write-wins singleton, consume-once
// drain.
type bridgeFake struct {
	mu sync.Mutex

	notices map[uuid.UUID]*models.ChangeNotice

	statusKind  string
	statusRowID *string

	appendErr  error
	publishErr error
}

func newBridgeFake() *bridgeFake {
	return &bridgeFake{
		notices:    map[uuid.UUID]*models.ChangeNotice{},
		statusKind: models.RefreshNone,
	}
}

func (f *bridgeFake) AppendNotice(_ context.Context, rowID string) (*models.ChangeNotice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return nil, f.appendErr
	}
	notice := &models.ChangeNotice{
		ID:     uuid.New(),
		RowID:  rowID,
		Status: models.NoticeWaiting,
	}
	f.notices[notice.ID] = notice
	return notice, nil
}

func (f *bridgeFake) LoadNotice(_ context.Context, id uuid.UUID) (*models.ChangeNotice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notice, ok := f.notices[id]
	if !ok {
		return nil, fmt.Errorf("notice %s not found", id)
	}
	return notice, nil
}

func (f *bridgeFake) MarkNoticeDone(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices[id].Status = models.NoticeDone
	return nil
}

func (f *bridgeFake) MarkNoticeError(_ context.Context, id uuid.UUID, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices[id].Status = models.NoticeError
	f.notices[id].ErrorDetail = &detail
	return nil
}

func (f *bridgeFake) PublishStatus(_ context.Context, rowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.publishErr != nil {
		return f.publishErr
	}
	f.statusKind = models.RefreshUpdate
	f.statusRowID = &rowID
	return nil
}

func (f *bridgeFake) DrainStatus(_ context.Context) (models.RefreshStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.statusKind != models.RefreshUpdate {
		return models.RefreshStatus{Kind: models.RefreshNone}, nil
	}
	rowID := f.statusRowID
	f.statusKind = models.RefreshNone
	f.statusRowID = nil
	return models.RefreshStatus{Kind: models.RefreshUpdate, RowID: rowID}, nil
}

func (f *bridgeFake) noticeStatuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	statuses := make([]string, 0, len(f.notices))
	for _, notice := range f.notices {
		statuses = append(statuses, notice.Status)
	}
	return statuses
}

// fakeTrigger records published trigger messages and optionally forwards
// them synchronously to a consumer (the relay, in the end-to-end test).
type fakeTrigger struct {
	mu        sync.Mutex
	published [][]byte
	err       error
	forward   func(body []byte)
}

func (f *fakeTrigger) PublishMessage(_, _ string, body []byte) error {
	f.mu.Lock()
	if f.err != nil {
		defer f.mu.Unlock()
		return f.err
	}
	f.published = append(f.published, body)
	forward := f.forward
	f.mu.Unlock()

	if forward != nil {
		forward(body)
	}
	return nil
}

// fakeDocs records document store calls.
type fakeDocs struct {
	upserted         map[string]map[string]any
	deleted          []string
	deleteByJobCalls []string
	remainingByJob   map[string]int64
	teams            map[string]map[string]any
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		upserted:       map[string]map[string]any{},
		remainingByJob: map[string]int64{},
		teams:          map[string]map[string]any{},
	}
}

func (f *fakeDocs) UpsertEvent(_ context.Context, id string, fields map[string]any) error {
	f.upserted[id] = fields
	return nil
}

func (f *fakeDocs) DeleteEvent(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocs) DeleteEventsByParentJob(_ context.Context, parentJobID string) (int64, error) {
	f.deleteByJobCalls = append(f.deleteByJobCalls, parentJobID)
	count := f.remainingByJob[parentJobID]
	f.remainingByJob[parentJobID] = 0
	return count, nil
}

func (f *fakeDocs) UpsertTeam(_ context.Context, id string, fields map[string]any) error {
	f.teams[id] = fields
	return nil
}

// fakeRemote stands in for the remote table client.
type fakeRemote struct {
	events  []appsheet.Event
	teamMap map[string]appsheet.TeamRef
	findErr error

	pushResp   json.RawMessage
	pushErr    error
	lastTable  string
	lastAction string
	lastRow    map[string]any
}

func (f *fakeRemote) FetchEnrichedEvents(_ context.Context) ([]appsheet.Event, map[string]appsheet.TeamRef, error) {
	if f.findErr != nil {
		return nil, nil, f.findErr
	}
	return f.events, f.teamMap, nil
}

func (f *fakeRemote) PushRow(_ context.Context, table, action string, row map[string]any) (json.RawMessage, error) {
	f.lastTable = table
	f.lastAction = action
	f.lastRow = row
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	return f.pushResp, nil
}
