package storage

import (
	"context"
	"strconv"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type CandidateStorage interface {
	Get(ctx context.Context, id string) (*Candidate, error)
	GetAll(ctx context.Context) ([]*Candidate, error)
	Create(ctx context.Context, candidate *Candidate) error
	Update(ctx context.Context, candidate *Candidate) error
	Delete(ctx context.Context, id string) error
	// UpdateVotes writes newCount only while the stored count still equals
	// expected, otherwise it returns ErrStaleVoteCount.
	UpdateVotes(ctx context.Context, id string, expected, newCount int) error
	ResetVotes(ctx context.Context) error
	DeleteAll(ctx context.Context) error
}

type DynamoCandidateStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCandidateStorage) GetAll(ctx context.Context) ([]*Candidate, error) {
	items, err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: scan failed: %v", err)
		return nil, err
	}

	var candidates []*Candidate
	if err := attributevalue.UnmarshalListOfMaps(items, &candidates); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to unmarshal candidate list: %v", err)
		return nil, err
	}
	SortCandidates(candidates)
	return candidates, nil
}

func (s *DynamoCandidateStorage) Get(ctx context.Context, id string) (*Candidate, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal key for ID %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.TableName,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: GetItem for ID %s failed: %v", id, err)
		return nil, classifyDynamoError(err)
	}
	if out.Item == nil {
		logging.Log.Warnf("CANDIDATE: no candidate found with ID %s", id)
		return nil, nil
	}

	var candidate Candidate
	if err := attributevalue.UnmarshalMap(out.Item, &candidate); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to unmarshal candidate: %v", err)
		return nil, err
	}
	return &candidate, nil
}

func (s *DynamoCandidateStorage) Create(ctx context.Context, candidate *Candidate) error {
	item, err := attributevalue.MarshalMap(candidate)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal candidate: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("CANDIDATE: item with ID %s already exists", candidate.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("CANDIDATE: failed to create candidate: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoCandidateStorage) Update(ctx context.Context, candidate *Candidate) error {
	item, err := attributevalue.MarshalMap(candidate)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal updated candidate: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("CANDIDATE: no candidate to update with ID %s", candidate.ID)
			return ErrNotFound
		}
		logging.Log.Errorf("CANDIDATE: failed to update candidate: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoCandidateStorage) UpdateVotes(ctx context.Context, id string, expected, newCount int) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET Votes = :new"),
		ConditionExpression: aws.String("attribute_exists(PK) AND Votes = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberN{Value: strconv.Itoa(newCount)},
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expected)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("CANDIDATE: vote count of %s is no longer %d", id, expected)
			return ErrStaleVoteCount
		}
		logging.Log.Errorf("CANDIDATE: failed to update votes of %s: %v", id, err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoCandidateStorage) ResetVotes(ctx context.Context) error {
	items, err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName:            &s.TableName,
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: scan for reset failed: %v", err)
		return err
	}

	for _, item := range items {
		_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.TableName),
			Key:                       map[string]types.AttributeValue{"PK": item["PK"]},
			UpdateExpression:          aws.String("SET Votes = :zero"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":zero": &types.AttributeValueMemberN{Value: "0"}},
		})
		if err != nil {
			logging.Log.Errorf("CANDIDATE: failed to reset votes: %v", err)
			return classifyDynamoError(err)
		}
	}
	logging.Log.Infof("CANDIDATE: reset votes of %d candidates", len(items))
	return nil
}

func (s *DynamoCandidateStorage) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal delete key for ID %s: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to delete candidate with ID %s: %v", id, err)
		return classifyDynamoError(err)
	}
	logging.Log.Infof("CANDIDATE: deleted candidate with ID %s", id)
	return nil
}

func (s *DynamoCandidateStorage) DeleteAll(ctx context.Context) error {
	items, err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName:            &s.TableName,
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: scan for delete failed: %v", err)
		return err
	}

	keys := make([]map[string]types.AttributeValue, 0, len(items))
	for _, item := range items {
		keys = append(keys, map[string]types.AttributeValue{"PK": item["PK"]})
	}
	if err := batchDelete(ctx, s.Client, s.TableName, keys); err != nil {
		logging.Log.Errorf("CANDIDATE: batch delete failed: %v", err)
		return err
	}
	logging.Log.Infof("CANDIDATE: deleted %d candidates", len(keys))
	return nil
}
