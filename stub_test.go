package osa_test

import (
	"context"
	"io"
	"sync"

	"github.com/burybell/osa"
)

// stubBucket is an in-memory Bucket that records calls and can fail or
// stall on demand.
type stubBucket struct {
	mu sync.Mutex

	objects        map[string][]byte
	bucketPolicy   *osa.AccessControlPolicy
	objectPolicies map[string]*osa.AccessControlPolicy

	fetchErr           error
	fetchErrAfterWrite error
	writeErr           error
	putObjectErr       error

	fetchCalls     int
	writeCalls     int
	putObjectCalls int

	// When non-nil, PutObject blocks until the channel is closed.
	putObjectGate chan struct{}
}

func newStubBucket() *stubBucket {
	return &stubBucket{
		objects:        make(map[string][]byte),
		objectPolicies: make(map[string]*osa.AccessControlPolicy),
	}
}

func clonePolicy(policy *osa.AccessControlPolicy) *osa.AccessControlPolicy {
	if policy == nil {
		return nil
	}
	clone := &osa.AccessControlPolicy{Owner: policy.Owner}
	clone.Grants = append(clone.Grants, policy.Grants...)
	return clone
}

func (t *stubBucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	if t.putObjectGate != nil {
		<-t.putObjectGate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.putObjectCalls++
	if t.putObjectErr != nil {
		return t.putObjectErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	t.objects[path] = data
	return nil
}

func (t *stubBucket) HeadObject(ctx context.Context, path string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.objects[path]
	return ok, nil
}

func (t *stubBucket) DeleteObject(ctx context.Context, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.objects, path)
	return nil
}

func (t *stubBucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetchCalls++
	if t.fetchErr != nil {
		return nil, t.fetchErr
	}
	if t.fetchErrAfterWrite != nil && t.writeCalls > 0 {
		return nil, t.fetchErrAfterWrite
	}
	return clonePolicy(t.bucketPolicy), nil
}

func (t *stubBucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeCalls++
	if t.writeErr != nil {
		return t.writeErr
	}
	t.bucketPolicy = clonePolicy(policy)
	return nil
}

func (t *stubBucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetchCalls++
	if t.fetchErr != nil {
		return nil, t.fetchErr
	}
	policy, ok := t.objectPolicies[path]
	if !ok {
		return nil, osa.ObjectNotFound
	}
	return clonePolicy(policy), nil
}

func (t *stubBucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeCalls++
	if t.writeErr != nil {
		return t.writeErr
	}
	t.objectPolicies[path] = clonePolicy(policy)
	return nil
}
