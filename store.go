package osa

import (
	"context"
	"io"
)

type Store interface {
	Name() string
	Bucket(name string) Bucket
}

// Bucket is one bucket of an object store. ACL reads return the policy as
// the store reported it; ACL writes replace the target's whole policy.
// Backends without grant-level ACL support return ErrACLNotSupported.
type Bucket interface {
	PutObject(ctx context.Context, path string, reader io.Reader) error
	HeadObject(ctx context.Context, path string) (bool, error)
	DeleteObject(ctx context.Context, path string) error
	GetBucketACL(ctx context.Context) (*AccessControlPolicy, error)
	PutBucketACL(ctx context.Context, policy *AccessControlPolicy) error
	GetObjectACL(ctx context.Context, path string) (*AccessControlPolicy, error)
	PutObjectACL(ctx context.Context, path string, policy *AccessControlPolicy) error
}
