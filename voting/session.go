package voting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
)

type State string

const (
	StateUnauthenticated   State = "unauthenticated"
	StateCodeSent          State = "code_sent"
	StateGenerationPending State = "generation_pending"
	StateVoting            State = "voting"
	StateComplete          State = "complete"
)

type Settings struct {
	Emails        EmailRule
	MaxGeneration int // 0 disables the upper bound
	AdminEmails   []string
}

type Dependencies struct {
	Store    Store
	Mailer   Mailer
	Settings Settings
}

// ClientMeta is advisory request metadata stored next to a vote.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type catalog struct {
	categories []*storage.Category
	candidates map[string][]*storage.Candidate
}

// View is a read-only snapshot of a session for renderers.
type View struct {
	SessionID           string
	State               State
	Email               string
	Role                storage.Role
	Generation          int
	SuggestedGeneration int
	MaxGeneration       int
	IsAdmin             bool
	Category            *storage.Category
	Candidates          []*storage.Candidate
	CanVote             bool
	Cursor              int
	Decisions           map[string]Decision
}

// Session drives one user from login to the end of the ballot. Calls that
// talk to the store or the mailer mark the session busy; a second such call
// fails with ErrBusy until the first one returns.
type Session struct {
	id string

	mu       sync.Mutex
	busy     bool
	epoch    int
	lastSeen time.Time

	deps         Dependencies
	verification *Verification
	recorder     *VoteRecorder

	state      State
	email      string
	user       *storage.User
	generation int
	walker     *CategoryWalker
	catalog    *catalog
}

func NewSession(id string, deps Dependencies) *Session {
	return &Session{
		id:           id,
		deps:         deps,
		verification: NewVerification(deps.Mailer),
		recorder:     NewVoteRecorder(deps.Store, deps.Settings.Emails),
		state:        StateUnauthenticated,
		lastSeen:     time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SendCode looks the user up, refuses addresses that already voted and
// mails a fresh verification code.
func (s *Session) SendCode(ctx context.Context, email string) error {
	if s.deps.Mailer == nil {
		return ErrNotConfigured
	}

	s.mu.Lock()
	if err := s.acquire(StateUnauthenticated, StateCodeSent); err != nil {
		s.mu.Unlock()
		return err
	}
	epoch := s.epoch
	s.mu.Unlock()

	email = NormalizeEmail(email)
	user, err := s.prepareChallenge(ctx, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(epoch) {
		if s.state == StateUnauthenticated && !s.busy {
			s.verification.Reset()
		}
		return fmt.Errorf("%w: session was reset", ErrInvalidState)
	}
	if err != nil {
		return err
	}

	s.email = email
	s.user = user
	s.state = StateCodeSent
	logging.Log.Infof("SESSION: %s code sent to %s", s.id, email)
	return nil
}

func (s *Session) prepareChallenge(ctx context.Context, email string) (*storage.User, error) {
	if err := s.deps.Settings.Emails.Validate(email); err != nil {
		return nil, err
	}

	user, err := s.deps.Store.FindUser(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logging.Log.Warnf("SESSION: unknown user %s", email)
			return nil, ErrUserNotFound
		}
		return nil, storeError("find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		logging.Log.Warnf("SESSION: deactivated user %s asked for a code", email)
		return nil, fmt.Errorf("%w: account is deactivated", ErrUserNotFound)
	}

	votes, err := s.deps.Store.FindVoteRecords(ctx, storage.VoteFilter{Email: email})
	switch {
	case err != nil:
		logging.Log.Warnf("SESSION: could not check previous votes of %s, continuing: %v", email, err)
	case len(votes) > 0:
		logging.Log.Infof("SESSION: %s already voted in %d categories", email, len(votes))
		return nil, fmt.Errorf("%w: this email was already used to vote", ErrAlreadyVoted)
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	if _, err := s.verification.Issue(ctx, email, displayName); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify checks code against the pending challenge. Students continue to
// the generation prompt, everybody else goes straight to the ballot.
func (s *Session) Verify(ctx context.Context, code string) error {
	s.mu.Lock()
	if err := s.acquire(StateCodeSent); err != nil {
		s.mu.Unlock()
		return err
	}
	epoch := s.epoch
	if !s.verification.Verify(s.email, strings.TrimSpace(code)) {
		s.settle(epoch)
		s.mu.Unlock()
		logging.Log.Infof("SESSION: %s entered a wrong code", s.id)
		return ErrInvalidCode
	}
	if s.user.Role == storage.RoleStudent {
		s.settle(epoch)
		s.state = StateGenerationPending
		s.mu.Unlock()
		return nil
	}
	role := s.user.Role
	s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(epoch) {
		return fmt.Errorf("%w: session was reset", ErrInvalidState)
	}
	if err != nil {
		return err
	}
	s.startVoting(cat, role, 0)
	return nil
}

// ConfirmGeneration sets the cohort of a verified student and opens the ballot.
func (s *Session) ConfirmGeneration(ctx context.Context, generation int) error {
	maxGeneration := s.deps.Settings.MaxGeneration
	if generation < 1 {
		return fmt.Errorf("%w: generation must be a positive number", ErrValidation)
	}
	if maxGeneration > 0 && generation > maxGeneration {
		return fmt.Errorf("%w: generation must be between 1 and %d", ErrValidation, maxGeneration)
	}

	s.mu.Lock()
	if err := s.acquire(StateGenerationPending); err != nil {
		s.mu.Unlock()
		return err
	}
	epoch := s.epoch
	s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(epoch) {
		return fmt.Errorf("%w: session was reset", ErrInvalidState)
	}
	if err != nil {
		return err
	}
	s.startVoting(cat, storage.RoleStudent, generation)
	return nil
}

// Vote casts a vote for candidateID in the current category and moves on.
// On any error the cursor stays where it is.
func (s *Session) Vote(ctx context.Context, candidateID string, meta ClientMeta) (*storage.VoteRecord, error) {
	s.mu.Lock()
	if err := s.acquire(StateVoting); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	epoch := s.epoch
	category, ok := s.walker.Current()
	if !ok {
		s.settle(epoch)
		s.state = StateComplete
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: ballot is complete", ErrInvalidState)
	}
	candidate := findCandidate(s.catalog.candidates[category.ID], candidateID)
	email := s.email
	s.mu.Unlock()

	if candidate == nil {
		s.release(epoch)
		return nil, fmt.Errorf("%w: candidate %q is not part of category %s", ErrValidation, candidateID, category.ID)
	}

	record, err := s.recorder.Submit(ctx, Voter{Email: email, UserAgent: meta.UserAgent, IPAddress: meta.IPAddress}, category, candidate)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(epoch) {
		return nil, fmt.Errorf("%w: session was reset", ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}
	if err := s.walker.RecordDecision(Voted(candidate.ID)); err != nil {
		return nil, err
	}
	s.checkComplete()
	return record, nil
}

// Skip leaves the current category without a vote.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if s.busy {
		return ErrBusy
	}
	if s.state != StateVoting {
		return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
	err := s.walker.RecordDecision(Skipped())
	s.checkComplete()
	return err
}

// Logout drops everything tied to the current user. Calls still in flight
// are discarded when they return.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.busy = false
	s.lastSeen = time.Now()
	s.verification.Reset()
	s.state = StateUnauthenticated
	s.email = ""
	s.user = nil
	s.generation = 0
	if s.walker != nil {
		s.walker.Reset()
	}
	s.walker = nil
	s.catalog = nil
	logging.Log.Infof("SESSION: %s logged out", s.id)
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	v := View{
		SessionID:     s.id,
		State:         s.state,
		Email:         s.email,
		Generation:    s.generation,
		MaxGeneration: s.deps.Settings.MaxGeneration,
		IsAdmin:       s.verifiedAdmin(),
		Decisions:     map[string]Decision{},
	}
	if s.user != nil && s.state != StateCodeSent {
		v.Role = s.user.Role
	}
	if s.state == StateGenerationPending && s.user != nil {
		v.SuggestedGeneration = s.user.Generation
	}
	if s.walker != nil {
		v.Decisions = s.walker.Decisions()
		if category, ok := s.walker.Current(); ok && s.state == StateVoting {
			v.Category = category
			v.Candidates = s.catalog.candidates[category.ID]
			v.CanVote = len(v.Candidates) > 0
		}
		v.Cursor = s.walker.Cursor()
	}
	return v
}

// IsAdmin reports whether a verified user of this session is listed as admin.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiedAdmin()
}

// Email of the verified user, empty before verification.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.verified() {
		return ""
	}
	return s.email
}

func (s *Session) verified() bool {
	switch s.state {
	case StateGenerationPending, StateVoting, StateComplete:
		return true
	}
	return false
}

func (s *Session) verifiedAdmin() bool {
	if !s.verified() {
		return false
	}
	for _, admin := range s.deps.Settings.AdminEmails {
		if NormalizeEmail(admin) == s.email {
			return true
		}
	}
	return false
}

// acquire must be called with mu held.
func (s *Session) acquire(allowed ...State) error {
	s.lastSeen = time.Now()
	if s.busy {
		return ErrBusy
	}
	for _, st := range allowed {
		if s.state == st {
			s.busy = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
}

// settle must be called with mu held. It reports whether the session is
// still the one the call started on.
func (s *Session) settle(epoch int) bool {
	if s.epoch != epoch {
		return false
	}
	s.busy = false
	return true
}

func (s *Session) release(epoch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(epoch)
}

func (s *Session) startVoting(cat *catalog, role storage.Role, generation int) {
	if role != storage.RoleStudent {
		generation = 0
	}
	s.generation = generation
	s.catalog = cat
	s.walker = NewCategoryWalker(cat.categories, func(c *storage.Category) bool {
		return CanAccess(c, role, generation)
	})
	s.state = StateVoting
	s.checkComplete()
	logging.Log.Infof("SESSION: %s voting as %s generation %d over %d categories", s.id, role, generation, len(cat.categories))
}

func (s *Session) checkComplete() {
	if s.state == StateVoting && s.walker.Done() {
		s.state = StateComplete
		logging.Log.Infof("SESSION: %s completed the ballot", s.id)
	}
}

func (s *Session) loadCatalog(ctx context.Context) (*catalog, error) {
	categories, err := s.deps.Store.ListCategories(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	candidates, err := s.deps.Store.ListCandidates(ctx)
	if err != nil {
		return nil, storeError("list candidates", err)
	}

	byCategory := make(map[string][]*storage.Candidate)
	for _, c := range candidates {
		byCategory[c.CategoryID] = append(byCategory[c.CategoryID], c)
	}
	return &catalog{categories: categories, candidates: byCategory}, nil
}

func findCandidate(candidates []*storage.Candidate, id string) *storage.Candidate {
	for _, c := range candidates {
		if c.ID == id {
			return c
		}
	}
	return nil
}
