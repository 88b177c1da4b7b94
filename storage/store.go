package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

type TableNames struct {
	Users      string
	Categories string
	Candidates string
	Votes      string
}

// Store groups the per-entity storages and exposes the narrow set of
// operations the voting session needs.
type Store struct {
	Users      UserStorage
	Categories CategoryStorage
	Candidates CandidateStorage
	Votes      VoteStorage
}

func NewDynamoStore(client *dynamodb.Client, tables TableNames) *Store {
	return &Store{
		Users:      &DynamoUserStorage{Client: client, TableName: tables.Users},
		Categories: &DynamoCategoryStorage{Client: client, TableName: tables.Categories},
		Candidates: &DynamoCandidateStorage{Client: client, TableName: tables.Candidates},
		Votes:      &DynamoVoteStorage{Client: client, TableName: tables.Votes},
	}
}

func NewMemoryStore() *Store {
	return &Store{
		Users:      NewMemoryUserStorage(),
		Categories: NewMemoryCategoryStorage(),
		Candidates: NewMemoryCandidateStorage(),
		Votes:      NewMemoryVoteStorage(),
	}
}

func (s *Store) FindUser(ctx context.Context, email string) (*User, error) {
	return s.Users.Get(ctx, email)
}

func (s *Store) FindVoteRecords(ctx context.Context, filter VoteFilter) ([]*VoteRecord, error) {
	return s.Votes.Find(ctx, filter)
}

// InsertVoteRecord assigns an ID and timestamp when missing and returns the ID.
func (s *Store) InsertVoteRecord(ctx context.Context, record *VoteRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := s.Votes.Create(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.Categories.GetAll(ctx)
}

func (s *Store) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	return s.Candidates.GetAll(ctx)
}

// GetCandidate returns ErrNotFound instead of a nil candidate.
func (s *Store) GetCandidate(ctx context.Context, id string) (*Candidate, error) {
	c, err := s.Candidates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Store) UpdateCandidateVoteCount(ctx context.Context, id string, expected, newCount int) error {
	return s.Candidates.UpdateVotes(ctx, id, expected, newCount)
}
