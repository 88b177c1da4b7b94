package voting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testDomain = "@udd.cl"

type recordingMailer struct {
	mu   sync.Mutex
	sent []CodeMessage
	err  error
}

func (m *recordingMailer) SendCode(_ context.Context, msg CodeMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last(t *testing.T) CodeMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no code was sent")
	return m.sent[len(m.sent)-1]
}

// blockingMailer parks every SendCode until release is closed.
type blockingMailer struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingMailer() *blockingMailer {
	return &blockingMailer{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (m *blockingMailer) SendCode(ctx context.Context, _ CodeMessage) error {
	m.entered <- struct{}{}
	select {
	case <-m.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *blockingMailer) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-m.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("mailer was never called")
	}
}

// failingCatalogStore serves users and votes but cannot list categories.
type failingCatalogStore struct {
	*storage.Store
}

func (s failingCatalogStore) ListCategories(context.Context) ([]*storage.Category, error) {
	return nil, errors.New("connection reset")
}

func setupLogger() {
	logging.Log = logrus.New()
	logging.Log.SetLevel(logrus.PanicLevel)
}

// newScenarioStore holds c1 academic, c2 community of generation 3 and
// c3 teacher, each with candidates, plus one user per role.
func newScenarioStore(t *testing.T) *storage.Store {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	categories := []*storage.Category{
		{ID: "c1", Name: "Academic award", Type: storage.CategoryTypeAcademic, Order: 1},
		{ID: "c2", Name: "Community award", Type: storage.CategoryTypeCommunity, Generation: 3, Order: 2},
		{ID: "c3", Name: "Teacher award", Type: storage.CategoryTypeTeacher, Order: 3},
	}
	for _, c := range categories {
		require.NoError(t, store.Categories.Create(ctx, c))
	}

	candidates := []*storage.Candidate{
		{ID: "a1", CategoryID: "c1", Name: "Lab A"},
		{ID: "b1", CategoryID: "c2", Name: "Club B"},
		{ID: "b2", CategoryID: "c2", Name: "Club C"},
		{ID: "t1", CategoryID: "c3", Name: "Prof T"},
	}
	for _, c := range candidates {
		require.NoError(t, store.Candidates.Create(ctx, c))
	}

	users := []*storage.User{
		{Email: "ana@udd.cl", DisplayName: "Ana", Role: storage.RoleStudent, Generation: 3, IsActive: true},
		{Email: "pedro@udd.cl", DisplayName: "Pedro", Role: storage.RoleProfessor, IsActive: true},
		{Email: "gina@udd.cl", Role: storage.RoleGuest, IsActive: true},
	}
	for _, u := range users {
		require.NoError(t, store.Users.Create(ctx, u))
	}
	return store
}

func testDependencies(store Store, mailer Mailer) Dependencies {
	return Dependencies{
		Store:  store,
		Mailer: mailer,
		Settings: Settings{
			Emails:        EmailRule{Domain: testDomain},
			MaxGeneration: 5,
			AdminEmails:   []string{"Pedro@udd.cl"},
		},
	}
}

// holdingMailer records every send and parks the ones addressed to hold
// until release is closed.
type holdingMailer struct {
	recordingMailer
	hold    string
	entered chan struct{}
	release chan struct{}
}

func newHoldingMailer(hold string) *holdingMailer {
	return &holdingMailer{hold: hold, entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (m *holdingMailer) SendCode(ctx context.Context, msg CodeMessage) error {
	if msg.To == m.hold {
		m.entered <- struct{}{}
		select {
		case <-m.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.recordingMailer.SendCode(ctx, msg)
}

func (m *holdingMailer) sentTo(t *testing.T, email string) CodeMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To == email {
			return m.sent[i]
		}
	}
	t.Fatalf("no code was sent to %s", email)
	return CodeMessage{}
}

// flakyVoteStore fails vote lookups or inserts on demand.
type flakyVoteStore struct {
	*storage.Store
	mu         sync.Mutex
	findDown   bool
	insertDown bool
}

func (s *flakyVoteStore) set(findDown, insertDown bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findDown = findDown
	s.insertDown = insertDown
}

func (s *flakyVoteStore) FindVoteRecords(ctx context.Context, filter storage.VoteFilter) ([]*storage.VoteRecord, error) {
	s.mu.Lock()
	down := s.findDown
	s.mu.Unlock()
	if down {
		return nil, errors.New("read tcp 10.0.0.7:443: i/o timeout")
	}
	return s.Store.FindVoteRecords(ctx, filter)
}

func (s *flakyVoteStore) InsertVoteRecord(ctx context.Context, record *storage.VoteRecord) (string, error) {
	s.mu.Lock()
	down := s.insertDown
	s.mu.Unlock()
	if down {
		return "", errors.New("read tcp 10.0.0.7:443: i/o timeout")
	}
	return s.Store.InsertVoteRecord(ctx, record)
}

// sequenceCodes hands out codes in order, one per call.
func sequenceCodes(codes ...string) func() (string, error) {
	var mu sync.Mutex
	next := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[next%len(codes)]
		next++
		return code, nil
	}
}
