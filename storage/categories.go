package storage

import (
	"context"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type CategoryStorage interface {
	Get(ctx context.Context, id string) (*Category, error)
	GetAll(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
}

type DynamoCategoryStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCategoryStorage) Get(ctx context.Context, id string) (*Category, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to marshal key for ID %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CATEGORY: GetItem for ID %s failed: %v", id, err)
		return nil, classifyDynamoError(err)
	}
	if out.Item == nil {
		logging.Log.Warnf("CATEGORY: no category found with ID %s", id)
		return nil, nil
	}

	var category Category
	if err := attributevalue.UnmarshalMap(out.Item, &category); err != nil {
		logging.Log.Errorf("CATEGORY: failed to unmarshal category: %v", err)
		return nil, err
	}
	return &category, nil
}

func (s *DynamoCategoryStorage) GetAll(ctx context.Context) ([]*Category, error) {
	items, err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("CATEGORY: scan failed: %v", err)
		return nil, err
	}

	var categories []*Category
	if err := attributevalue.UnmarshalListOfMaps(items, &categories); err != nil {
		logging.Log.Errorf("CATEGORY: failed to unmarshal list: %v", err)
		return nil, err
	}
	SortCategories(categories)
	return categories, nil
}

func (s *DynamoCategoryStorage) Create(ctx context.Context, category *Category) error {
	item, err := attributevalue.MarshalMap(category)
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to marshal category: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("CATEGORY: item with ID %s already exists", category.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("CATEGORY: failed to create category: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoCategoryStorage) Update(ctx context.Context, category *Category) error {
	item, err := attributevalue.MarshalMap(category)
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to marshal updated category: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("CATEGORY: no category to update with ID %s", category.ID)
			return ErrNotFound
		}
		logging.Log.Errorf("CATEGORY: failed to update category: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoCategoryStorage) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to marshal delete key for ID %s: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to delete category with ID %s: %v", id, err)
		return classifyDynamoError(err)
	}
	logging.Log.Infof("CATEGORY: deleted category with ID %s", id)
	return nil
}
