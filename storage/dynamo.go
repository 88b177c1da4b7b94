package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/matryer/try"
)

// DynamoDB error codes returned when the caller's credentials or the table
// policy reject the request.
var permissionErrorCodes = map[string]bool{
	"AccessDeniedException":       true,
	"UnrecognizedClientException": true,
	"InvalidSignatureException":   true,
	"ExpiredTokenException":       true,
	"MissingAuthenticationToken":  true,
}

func classifyDynamoError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && permissionErrorCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}

func isConditionalCheckFailed(err error) bool {
	var cce *types.ConditionalCheckFailedException
	return errors.As(err, &cce)
}

// scanAll follows LastEvaluatedKey until the whole table has been read.
func scanAll(ctx context.Context, client *dynamodb.Client, input *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := client.Scan(ctx, input)
		if err != nil {
			return nil, classifyDynamoError(err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

const maxBatchAttempts = 5

// batchBackoff is the pause before retrying attempt n of a batch.
var batchBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt) * 100 * time.Millisecond
}

type batchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// batchDelete removes the given keys 25 at a time, the BatchWriteItem limit.
// Requests DynamoDB hands back as unprocessed are resent with a backoff.
func batchDelete(ctx context.Context, client batchWriter, table string, keys []map[string]types.AttributeValue) error {
	var writeRequests []types.WriteRequest
	for _, key := range keys {
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: key},
		})
	}

	for i := 0; i < len(writeRequests); i += 25 {
		end := i + 25
		if end > len(writeRequests) {
			end = len(writeRequests)
		}
		if err := writeBatch(ctx, client, table, writeRequests[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func writeBatch(ctx context.Context, client batchWriter, table string, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{table: requests}
	return try.Do(func(attempt int) (bool, error) {
		if attempt > 1 {
			time.Sleep(batchBackoff(attempt - 1))
		}
		out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return false, classifyDynamoError(err)
		}
		if len(out.UnprocessedItems[table]) == 0 {
			return false, nil
		}
		pending = out.UnprocessedItems
		logging.Log.Warnf("STORAGE: %d deletes on %s unprocessed, retrying", len(pending[table]), table)
		return attempt < maxBatchAttempts, fmt.Errorf("%w: %d requests on %s", ErrUnprocessedItems, len(pending[table]), table)
	})
}
