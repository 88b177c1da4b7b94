package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrItemWithIDAlreadyExists = errors.New("item with the same ID already exists")
var ErrVoteAlreadyExists = errors.New("vote for this email and category already exists")
var ErrStaleVoteCount = errors.New("candidate vote count changed concurrently")
var ErrPermissionDenied = errors.New("storage rejected the operation: permission denied")
var ErrUnprocessedItems = errors.New("batch write left items unprocessed")
