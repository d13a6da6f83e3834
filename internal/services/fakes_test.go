package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"eventdesk/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordedAudit struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Detail   any
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (a *fakeAuditor) Record(_ context.Context, actorID, action, entity, entityID string, detail any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedAudit{actorID, action, entity, entityID, detail})
}

func (a *fakeAuditor) last() *recordedAudit {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return nil
	}
	return &a.entries[len(a.entries)-1]
}

type fakeEnrollmentRepo struct {
	byID           map[string]*domain.Enrollment
	byEventAndUser map[string]*domain.Enrollment
	listRows       []*domain.Enrollment
	counters       domain.EnrollmentCounters
	countByEvent   map[string]int
	countByUser    map[string]int

	listErr     error
	countersErr error
	createErr   error

	created    *domain.Enrollment
	lastLimit  int
	lastOffset int
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		byID:           make(map[string]*domain.Enrollment),
		byEventAndUser: make(map[string]*domain.Enrollment),
		countByEvent:   make(map[string]int),
		countByUser:    make(map[string]int),
	}
}

func (m *fakeEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	e.ID = "enr-new"
	m.created = e
	m.byID[e.ID] = e
	m.byEventAndUser[e.EventID+":"+e.UserID] = e
	return nil
}

func (m *fakeEnrollmentRepo) GetByID(_ context.Context, id string) (*domain.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *fakeEnrollmentRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.Enrollment, error) {
	e, ok := m.byEventAndUser[eventID+":"+userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *fakeEnrollmentRepo) List(_ context.Context, _ domain.EnrollmentFilters, limit, offset int) ([]*domain.Enrollment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.lastLimit, m.lastOffset = limit, offset
	return m.listRows, nil
}

func (m *fakeEnrollmentRepo) Counters(_ context.Context, _ domain.EnrollmentFilters) (*domain.EnrollmentCounters, error) {
	if m.countersErr != nil {
		return nil, m.countersErr
	}
	c := m.counters
	return &c, nil
}

func (m *fakeEnrollmentRepo) SetCheckedIn(_ context.Context, id string, checkedIn bool) (*domain.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.CheckedIn = checkedIn
	return e, nil
}

func (m *fakeEnrollmentRepo) SetParticipantType(_ context.Context, id, participantType string) (*domain.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.ParticipantType = participantType
	return e, nil
}

func (m *fakeEnrollmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *fakeEnrollmentRepo) CountByEventID(_ context.Context, eventID string) (int, error) {
	return m.countByEvent[eventID], nil
}

func (m *fakeEnrollmentRepo) CountByUserID(_ context.Context, userID string) (int, error) {
	return m.countByUser[userID], nil
}

type fakeEventRepo struct {
	events   map[string]*domain.Event
	bySlug   map[string]*domain.Event
	listRows []*domain.Event
	metrics  map[string]*domain.EventMetrics

	listErr    error
	metricsErr error

	created    *domain.Event
	updated    *domain.Event
	relations  *domain.EventRelations
	lastCursor string
	lastLimit  int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  make(map[string]*domain.Event),
		bySlug:  make(map[string]*domain.Event),
		metrics: make(map[string]*domain.EventMetrics),
	}
}

func (m *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	m.created = e
	m.events[e.ID] = e
	return nil
}

func (m *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	m.updated = e
	m.events[e.ID] = e
	return nil
}

func (m *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *fakeEventRepo) GetBySlug(_ context.Context, slug string) (*domain.Event, error) {
	e, ok := m.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *fakeEventRepo) ListAdmin(_ context.Context, _ domain.EventFilters, cursor string, limit int) ([]*domain.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.lastCursor, m.lastLimit = cursor, limit
	return m.listRows, nil
}

func (m *fakeEventRepo) MetricsByEventIDs(_ context.Context, _ []string) (map[string]*domain.EventMetrics, error) {
	if m.metricsErr != nil {
		return nil, m.metricsErr
	}
	return m.metrics, nil
}

func (m *fakeEventRepo) SetPublished(_ context.Context, id string, published bool) error {
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Published = published
	return nil
}

func (m *fakeEventRepo) SetHighlighted(_ context.Context, id string, highlighted bool) error {
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Highlighted = highlighted
	return nil
}

func (m *fakeEventRepo) ReplaceRelations(_ context.Context, _ string, rel domain.EventRelations) error {
	m.relations = &rel
	return nil
}

func (m *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User

	created     *domain.User
	assignments []string
	deleted     []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *fakeUserRepo) add(u *domain.User) {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = "user-new"
	m.created = u
	m.add(u)
	return nil
}

func (m *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	m.byID[u.ID] = u
	return nil
}

func (m *fakeUserRepo) AssignRole(_ context.Context, userID, roleID string) error {
	m.assignments = append(m.assignments, userID+":"+roleID)
	return nil
}

func (m *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type fakeRoleRepo struct {
	byCode map[string]*domain.Role
	byUser map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode: make(map[string]*domain.Role),
		byUser: make(map[string][]*domain.Role),
	}
}

func (m *fakeRoleRepo) GetByCode(_ context.Context, code string) (*domain.Role, error) {
	r, ok := m.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *fakeRoleRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Role, error) {
	return m.byUser[userID], nil
}

type fakeSpeakerRepo struct {
	byID       map[string]*domain.Speaker
	byUserID   map[string]*domain.Speaker
	listRows   []*domain.Speaker
	byEvent    map[string][]*domain.Speaker
	associated map[string]bool
	assocCount map[string]int

	created          *domain.Speaker
	updated          *domain.Speaker
	associatedWith   string
	mirrorEnrollment *domain.Enrollment
	disassociateErr  error
	deleted          []string
}

func newFakeSpeakerRepo() *fakeSpeakerRepo {
	return &fakeSpeakerRepo{
		byID:       make(map[string]*domain.Speaker),
		byUserID:   make(map[string]*domain.Speaker),
		byEvent:    make(map[string][]*domain.Speaker),
		associated: make(map[string]bool),
		assocCount: make(map[string]int),
	}
}

func (m *fakeSpeakerRepo) add(s *domain.Speaker) {
	m.byID[s.ID] = s
	m.byUserID[s.UserID] = s
}

func (m *fakeSpeakerRepo) Create(_ context.Context, s *domain.Speaker) error {
	s.ID = "spk-new"
	m.created = s
	m.add(s)
	return nil
}

func (m *fakeSpeakerRepo) Update(_ context.Context, s *domain.Speaker) error {
	if _, ok := m.byID[s.ID]; !ok {
		return domain.ErrNotFound
	}
	m.updated = s
	return nil
}

func (m *fakeSpeakerRepo) GetByID(_ context.Context, id string) (*domain.Speaker, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *fakeSpeakerRepo) GetByUserID(_ context.Context, userID string) (*domain.Speaker, error) {
	s, ok := m.byUserID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *fakeSpeakerRepo) List(_ context.Context) ([]*domain.Speaker, error) {
	return m.listRows, nil
}

func (m *fakeSpeakerRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.Speaker, error) {
	return m.byEvent[eventID], nil
}

func (m *fakeSpeakerRepo) IsAssociated(_ context.Context, eventID, speakerID string) (bool, error) {
	return m.associated[eventID+":"+speakerID], nil
}

func (m *fakeSpeakerRepo) Associate(_ context.Context, eventID string, s *domain.Speaker, enrollment *domain.Enrollment) error {
	m.associated[eventID+":"+s.ID] = true
	m.associatedWith = eventID
	m.mirrorEnrollment = enrollment
	return nil
}

func (m *fakeSpeakerRepo) Disassociate(_ context.Context, eventID string, s *domain.Speaker) error {
	if m.disassociateErr != nil {
		return m.disassociateErr
	}
	key := eventID + ":" + s.ID
	if !m.associated[key] {
		return domain.ErrNotFound
	}
	delete(m.associated, key)
	return nil
}

func (m *fakeSpeakerRepo) CountEventAssociations(_ context.Context, speakerID string) (int, error) {
	return m.assocCount[speakerID], nil
}

func (m *fakeSpeakerRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type fakeStatsRepo struct {
	byMonth   []*domain.MonthlyCount
	bySegment []*domain.GroupCount
	byCompany []*domain.GroupCount
	topEvents []*domain.EventRanking

	byMonthErr error
	inTxErr    error

	sinceSeen        time.Time
	companyLimitSeen int
	eventsLimitSeen  int
}

func (m *fakeStatsRepo) ByMonth(_ context.Context, since time.Time) ([]*domain.MonthlyCount, error) {
	if m.byMonthErr != nil {
		return nil, m.byMonthErr
	}
	m.sinceSeen = since
	return m.byMonth, nil
}

func (m *fakeStatsRepo) BySegment(_ context.Context) ([]*domain.GroupCount, error) {
	return m.bySegment, nil
}

func (m *fakeStatsRepo) ByCompany(_ context.Context, limit int) ([]*domain.GroupCount, error) {
	m.companyLimitSeen = limit
	return m.byCompany, nil
}

func (m *fakeStatsRepo) TopEvents(_ context.Context, limit int) ([]*domain.EventRanking, error) {
	m.eventsLimitSeen = limit
	return m.topEvents, nil
}

func (m *fakeStatsRepo) InTx(_ context.Context, fn func(domain.StatsRepository) error) error {
	if m.inTxErr != nil {
		return m.inTxErr
	}
	return fn(m)
}

type fakePasswordHasher struct {
	salt       string
	hash       string
	compareErr error
}

func (m *fakePasswordHasher) GenerateSalt() (string, error) { return m.salt, nil }

func (m *fakePasswordHasher) Hash(_, _ string) (string, error) { return m.hash, nil }

func (m *fakePasswordHasher) Compare(_, _, _ string) error { return m.compareErr }

type fakeTokenIssuer struct {
	token string
	err   error

	permissionsSeen []string
	expirySeen      time.Duration
}

func (m *fakeTokenIssuer) Issue(_, _ string, permissions []string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.permissionsSeen = permissions
	m.expirySeen = expiry
	return m.token, nil
}

type sentEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) first() sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[0]
}

func (m *fakeMailer) Send(to, subject, html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to, subject, html, text})
	return nil
}

type fakeRenderer struct {
	subject string
	err     error
}

func (m *fakeRenderer) Render(_ string, _ interface{}) (string, string, string, error) {
	if m.err != nil {
		return "", "", "", m.err
	}
	return m.subject, "<p>html</p>", "text", nil
}

type fakePrinter struct {
	ip     string
	port   int
	badges []domain.BadgePayload
	err    error
}

func (m *fakePrinter) Print(_ context.Context, ip string, port int, badges []domain.BadgePayload) error {
	if m.err != nil {
		return m.err
	}
	m.ip, m.port, m.badges = ip, port, badges
	return nil
}
