package shard

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownShard    = errors.New("unknown shard")
	ErrDuplicateShard  = errors.New("shard already registered")
	ErrNoShards        = errors.New("no shards resolved")
	ErrNonUniqueResult = errors.New("query returned more than one row")
)

// ShardError ties an error to the shard it happened on. It unwraps to the
// original error.
type ShardError struct {
	Shard ID
	Err   error
}

func (e *ShardError) Error() string {
	return fmt.Sprintf("shard %s: %v", e.Shard, e.Err)
}

func (e *ShardError) Unwrap() error { return e.Err }

func shardError(id ID, err error) error {
	if err == nil {
		return nil
	}
	return &ShardError{Shard: id, Err: err}
}
