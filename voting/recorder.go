package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/matryer/try"
)

const defaultCountAttempts = 5

// Store is the slice of the document store a voting session depends on.
type Store interface {
	FindUser(ctx context.Context, email string) (*storage.User, error)
	FindVoteRecords(ctx context.Context, filter storage.VoteFilter) ([]*storage.VoteRecord, error)
	InsertVoteRecord(ctx context.Context, record *storage.VoteRecord) (string, error)
	ListCategories(ctx context.Context) ([]*storage.Category, error)
	ListCandidates(ctx context.Context) ([]*storage.Candidate, error)
	GetCandidate(ctx context.Context, id string) (*storage.Candidate, error)
	UpdateCandidateVoteCount(ctx context.Context, id string, expected, newCount int) error
}

// Voter identifies who casts a vote. UserAgent and IPAddress are advisory.
type Voter struct {
	Email     string
	UserAgent string
	IPAddress string
}

type VoteRecorder struct {
	store         Store
	emails        EmailRule
	countAttempts int
	now           func() time.Time
}

func NewVoteRecorder(store Store, emails EmailRule) *VoteRecorder {
	return &VoteRecorder{
		store:         store,
		emails:        emails,
		countAttempts: defaultCountAttempts,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores one vote of voter in category and bumps the candidate tally.
// A second vote for the same (email, category) fails with ErrAlreadyVoted.
func (r *VoteRecorder) Submit(ctx context.Context, voter Voter, category *storage.Category, candidate *storage.Candidate) (*storage.VoteRecord, error) {
	email := NormalizeEmail(voter.Email)
	if err := r.emails.Validate(email); err != nil {
		return nil, err
	}
	if category == nil || candidate == nil {
		return nil, fmt.Errorf("%w: category and candidate are required", ErrValidation)
	}
	if candidate.CategoryID != category.ID {
		return nil, fmt.Errorf("%w: candidate %s does not belong to category %s", ErrValidation, candidate.ID, category.ID)
	}

	existing, err := r.store.FindVoteRecords(ctx, storage.VoteFilter{Email: email, CategoryID: category.ID})
	if err != nil {
		return nil, storeError("check previous votes", err)
	}
	if len(existing) > 0 {
		logging.Log.Infof("VOTE: %s already voted in category %s", email, category.ID)
		return nil, ErrAlreadyVoted
	}

	record := &storage.VoteRecord{
		Email:       email,
		CategoryID:  category.ID,
		CandidateID: candidate.ID,
		Timestamp:   r.now(),
		UserAgent:   voter.UserAgent,
		IPAddress:   voter.IPAddress,
	}
	if _, err := r.store.InsertVoteRecord(ctx, record); err != nil {
		if errors.Is(err, storage.ErrVoteAlreadyExists) {
			return nil, ErrAlreadyVoted
		}
		return nil, storeError("insert vote", err)
	}
	logging.Log.Infof("VOTE: %s voted for %s in category %s", email, candidate.ID, category.ID)

	// The vote record is authoritative; a tally that could not be bumped is
	// logged and left for the admin views to reconcile.
	if err := r.incrementVotes(ctx, candidate); err != nil {
		logging.Log.Errorf("VOTE: vote %s stored but tally of %s not updated: %v", record.ID, candidate.ID, err)
	}
	return record, nil
}

// incrementVotes writes current+1 guarded on current, re-reading on conflict.
func (r *VoteRecorder) incrementVotes(ctx context.Context, candidate *storage.Candidate) error {
	return try.Do(func(attempt int) (bool, error) {
		current, err := r.store.GetCandidate(ctx, candidate.ID)
		if err != nil {
			return false, err
		}
		err = r.store.UpdateCandidateVoteCount(ctx, candidate.ID, current.Votes, current.Votes+1)
		if errors.Is(err, storage.ErrStaleVoteCount) {
			return attempt < r.countAttempts, err
		}
		return false, err
	})
}
