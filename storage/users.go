package storage

import (
	"context"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type UserStorage interface {
	Get(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, email string) error
}

type DynamoUserStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// Get returns ErrNotFound when no user is registered under email.
func (s *DynamoUserStorage) Get(ctx context.Context, email string) (*User, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": email})
	if err != nil {
		logging.Log.Errorf("USER: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("USER: GetItem for %s failed: %v", email, err)
		return nil, classifyDynamoError(err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var user *User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		logging.Log.Errorf("USER: failed to unmarshal result: %v", err)
		return nil, err
	}
	return user, nil
}

func (s *DynamoUserStorage) GetAll(ctx context.Context) ([]*User, error) {
	items, err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("USER: scan failed: %v", err)
		return nil, err
	}

	var users []*User
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		logging.Log.Errorf("USER: failed to unmarshal list: %v", err)
		return nil, err
	}
	return users, nil
}

func (s *DynamoUserStorage) Create(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		logging.Log.Errorf("USER: failed to marshal user: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			logging.Log.Warnf("USER: %s already exists", user.Email)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("USER: PUT storage failed: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoUserStorage) Update(ctx context.Context, user *User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		logging.Log.Errorf("USER: failed to marshal updated user: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("USER: failed to update %s: %v", user.Email, err)
		return classifyDynamoError(err)
	}
	return nil
}

func (s *DynamoUserStorage) Delete(ctx context.Context, email string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": email})
	if err != nil {
		logging.Log.Errorf("USER: failed to marshal key: %v", err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("USER: DEL storage item failed: %v", err)
		return classifyDynamoError(err)
	}
	return nil
}
