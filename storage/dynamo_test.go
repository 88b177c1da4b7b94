package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDynamoError(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "no"}
	assert.ErrorIs(t, classifyDynamoError(fmt.Errorf("operation error: %w", denied)), ErrPermissionDenied)

	throttled := &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException"}
	assert.NotErrorIs(t, classifyDynamoError(throttled), ErrPermissionDenied)

	plain := errors.New("boom")
	assert.Equal(t, plain, classifyDynamoError(plain))

	assert.True(t, isConditionalCheckFailed(fmt.Errorf("put: %w", &types.ConditionalCheckFailedException{})))
}

// throttledWriter hands back the last request of every batch as unprocessed
// for the first throttled calls.
type throttledWriter struct {
	throttled int
	calls     int
	deleted   []string
}

func (w *throttledWriter) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	w.calls++
	out := &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for table, requests := range params.RequestItems {
		done := requests
		if w.calls <= w.throttled {
			done = requests[:len(requests)-1]
			out.UnprocessedItems[table] = requests[len(requests)-1:]
		}
		for _, r := range done {
			w.deleted = append(w.deleted, r.DeleteRequest.Key["PK"].(*types.AttributeValueMemberS).Value)
		}
	}
	return out, nil
}

func voteKeys(n int) []map[string]types.AttributeValue {
	keys := make([]map[string]types.AttributeValue, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("user%02d@udd.cl", i)},
		})
	}
	return keys
}

func TestBatchDeleteRetriesUnprocessedItems(t *testing.T) {
	logging.Log = logrus.New()
	logging.Log.SetLevel(logrus.PanicLevel)
	backoff := batchBackoff
	batchBackoff = func(int) time.Duration { return 0 }
	t.Cleanup(func() { batchBackoff = backoff })
	ctx := context.Background()

	t.Run("Throttled requests are resent until none are left", func(t *testing.T) {
		w := &throttledWriter{throttled: 2}
		require.NoError(t, batchDelete(ctx, w, "Votes", voteKeys(30)))
		assert.Len(t, w.deleted, 30)
		assert.Equal(t, "user24@udd.cl", w.deleted[24], "the throttled key lands on the retry")
		assert.Equal(t, 4, w.calls)
	})

	t.Run("Persistent throttling is reported", func(t *testing.T) {
		w := &throttledWriter{throttled: 1000}
		err := batchDelete(ctx, w, "Votes", voteKeys(3))
		assert.ErrorIs(t, err, ErrUnprocessedItems)
		assert.Equal(t, maxBatchAttempts, w.calls)
		assert.Len(t, w.deleted, 2)
	})
}

// setupLocalstack connects to LOCALSTACK_ENDPOINT and creates throwaway
// Votes and Candidates tables.
func setupLocalstack(t *testing.T) *Store {
	t.Helper()
	endpoint := os.Getenv("LOCALSTACK_ENDPOINT")
	if endpoint == "" {
		t.Skip("LOCALSTACK_ENDPOINT not set")
	}
	logging.Log = logrus.New()

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
	require.NoError(t, err, "failed to load config")
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	tables := TableNames{
		Users:      "Users-" + suffix,
		Categories: "Categories-" + suffix,
		Candidates: "Candidates-" + suffix,
		Votes:      "Votes-" + suffix,
	}
	createTable(t, client, tables.Candidates, false)
	createTable(t, client, tables.Votes, true)
	t.Cleanup(func() {
		for _, name := range []string{tables.Candidates, tables.Votes} {
			_, _ = client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{TableName: aws.String(name)})
		}
	})

	return NewDynamoStore(client, tables)
}

func createTable(t *testing.T, client *dynamodb.Client, name string, withSortKey bool) {
	t.Helper()
	attributes := []types.AttributeDefinition{{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS}}
	schema := []types.KeySchemaElement{{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash}}
	if withSortKey {
		attributes = append(attributes, types.AttributeDefinition{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS})
		schema = append(schema, types.KeySchemaElement{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange})
	}
	_, err := client.CreateTable(context.Background(), &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		AttributeDefinitions: attributes,
		KeySchema:            schema,
		BillingMode:          types.BillingModePayPerRequest,
	})
	require.NoError(t, err, "failed to create table %s", name)
}

func TestDynamoVoteStorage(t *testing.T) {
	store := setupLocalstack(t)
	ctx := context.Background()

	_, err := store.InsertVoteRecord(ctx, &VoteRecord{Email: "ana@udd.cl", CategoryID: "c1", CandidateID: "x"})
	require.NoError(t, err)
	_, err = store.InsertVoteRecord(ctx, &VoteRecord{Email: "ana@udd.cl", CategoryID: "c2", CandidateID: "y"})
	require.NoError(t, err)

	_, err = store.InsertVoteRecord(ctx, &VoteRecord{Email: "ana@udd.cl", CategoryID: "c1", CandidateID: "z"})
	assert.ErrorIs(t, err, ErrVoteAlreadyExists)

	exact, err := store.FindVoteRecords(ctx, VoteFilter{Email: "ana@udd.cl", CategoryID: "c1"})
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "x", exact[0].CandidateID)

	byEmail, err := store.FindVoteRecords(ctx, VoteFilter{Email: "ana@udd.cl"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	deleted, err := store.Votes.DeleteByEmail(ctx, "ana@udd.cl")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	all, err := store.FindVoteRecords(ctx, VoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDynamoCandidateVotes(t *testing.T) {
	store := setupLocalstack(t)
	ctx := context.Background()

	require.NoError(t, store.Candidates.Create(ctx, &Candidate{ID: "x", CategoryID: "c1", Name: "X", CreatedAt: time.Now().UTC()}))
	assert.ErrorIs(t, store.Candidates.Create(ctx, &Candidate{ID: "x"}), ErrItemWithIDAlreadyExists)

	require.NoError(t, store.UpdateCandidateVoteCount(ctx, "x", 0, 1))
	assert.ErrorIs(t, store.UpdateCandidateVoteCount(ctx, "x", 0, 1), ErrStaleVoteCount)

	c, err := store.GetCandidate(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Votes)

	require.NoError(t, store.Candidates.ResetVotes(ctx))
	c, err = store.GetCandidate(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Votes)
}
