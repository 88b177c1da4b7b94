package storage

import (
	"context"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type VoteStorage interface {
	Find(ctx context.Context, filter VoteFilter) ([]*VoteRecord, error)
	// Create fails with ErrVoteAlreadyExists when (Email, CategoryID) is taken.
	Create(ctx context.Context, vote *VoteRecord) error
	DeleteByEmail(ctx context.Context, email string) (int, error)
	DeleteAll(ctx context.Context) error
}

type DynamoVoteStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoVoteStorage) Find(ctx context.Context, filter VoteFilter) ([]*VoteRecord, error) {
	var items []map[string]types.AttributeValue
	switch {
	case filter.Email != "" && filter.CategoryID != "":
		out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: &s.TableName,
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: filter.Email},
				"SK": &types.AttributeValueMemberS{Value: filter.CategoryID},
			},
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			logging.Log.Errorf("VOTE: GetItem for %s/%s failed: %v", filter.Email, filter.CategoryID, err)
			return nil, classifyDynamoError(err)
		}
		if out.Item != nil {
			items = append(items, out.Item)
		}
	case filter.Email != "":
		input := &dynamodb.QueryInput{
			TableName:              &s.TableName,
			KeyConditionExpression: aws.String("PK = :email"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":email": &types.AttributeValueMemberS{Value: filter.Email},
			},
			ConsistentRead: aws.Bool(true),
		}
		paginator := dynamodb.NewQueryPaginator(s.Client, input)
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				logging.Log.Errorf("VOTE: failed to query votes by email: %v", err)
				return nil, classifyDynamoError(err)
			}
			items = append(items, out.Items...)
		}
	default:
		input := &dynamodb.ScanInput{TableName: &s.TableName}
		if filter.CategoryID != "" {
			input.FilterExpression = aws.String("SK = :category")
			input.ExpressionAttributeValues = map[string]types.AttributeValue{
				":category": &types.AttributeValueMemberS{Value: filter.CategoryID},
			}
		}
		all, err := scanAll(ctx, s.Client, input)
		if err != nil {
			logging.Log.Errorf("VOTE: scan failed: %v", err)
			return nil, err
		}
		items = all
	}

	var votes []*VoteRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal vote list: %v", err)
		return nil, err
	}
	return votes, nil
}

func (s *DynamoVoteStorage) Create(ctx context.Context, vote *VoteRecord) error {
	item, err := attributevalue.MarshalMap(vote)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to marshal vote: %v", err)
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("VOTE: %s already voted in category %s", vote.Email, vote.CategoryID)
			return ErrVoteAlreadyExists
		}
		logging.Log.Errorf("VOTE: failed to create vote: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoVoteStorage) DeleteByEmail(ctx context.Context, email string) (int, error) {
	votes, err := s.Find(ctx, VoteFilter{Email: email})
	if err != nil {
		return 0, err
	}

	keys := make([]map[string]types.AttributeValue, 0, len(votes))
	for _, v := range votes {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: v.Email},
			"SK": &types.AttributeValueMemberS{Value: v.CategoryID},
		})
	}
	if err := batchDelete(ctx, s.Client, s.TableName, keys); err != nil {
		logging.Log.Errorf("VOTE: batch delete for %s failed: %v", email, err)
		return 0, err
	}
	logging.Log.Infof("VOTE: deleted %d votes of %s", len(keys), email)
	return len(keys), nil
}

func (s *DynamoVoteStorage) DeleteAll(ctx context.Context) error {
	items, err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName:            &s.TableName,
		ProjectionExpression: aws.String("PK, SK"),
	})
	if err != nil {
		logging.Log.Errorf("VOTE: scan for delete failed: %v", err)
		return err
	}

	keys := make([]map[string]types.AttributeValue, 0, len(items))
	for _, item := range items {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": item["PK"],
			"SK": item["SK"],
		})
	}
	if err := batchDelete(ctx, s.Client, s.TableName, keys); err != nil {
		logging.Log.Errorf("VOTE: batch delete failed: %v", err)
		return err
	}
	logging.Log.Infof("VOTE: deleted %d votes", len(keys))
	return nil
}
