package shard

import "context"

// Resolver picks the shards a query runs on.
type Resolver interface {
	Resolve(ctx context.Context, q *Query) ([]ID, error)
}

type ResolverFunc func(ctx context.Context, q *Query) ([]ID, error)

func (f ResolverFunc) Resolve(ctx context.Context, q *Query) ([]ID, error) {
	return f(ctx, q)
}

// AllShards runs a query on every registered shard.
var AllShards Resolver = ResolverFunc(func(_ context.Context, q *Query) ([]ID, error) {
	return q.registry.IDs(), nil
})

// Fixed runs a query on the given shards only.
func Fixed(ids ...ID) Resolver {
	ids = append([]ID(nil), ids...)
	return ResolverFunc(func(context.Context, *Query) ([]ID, error) {
		return ids, nil
	})
}
