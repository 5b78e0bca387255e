package local_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/burybell/osa"
	"github.com/burybell/osa/local"
	"github.com/stretchr/testify/assert"
)

var ctx = context.Background()

func newTestBucket(t *testing.T) osa.Bucket {
	t.Helper()
	store := local.MustNewObjectStore(local.Config{
		BasePath:  t.TempDir(),
		OwnerID:   "O",
		OwnerName: "Owner",
	})
	return store.Bucket("example")
}

func TestBucket_PutObject(t *testing.T) {
	bkt := newTestBucket(t)
	err := bkt.PutObject(ctx, "test/example.txt", strings.NewReader("some text"))
	assert.NoError(t, err)
	exist, err := bkt.HeadObject(ctx, "test/example.txt")
	assert.NoError(t, err)
	assert.True(t, exist)
}

func TestBucket_DeleteObject(t *testing.T) {
	bkt := newTestBucket(t)
	err := bkt.PutObject(ctx, "test/example.txt", strings.NewReader("some text"))
	assert.NoError(t, err)
	err = bkt.DeleteObject(ctx, "test/example.txt")
	assert.NoError(t, err)
	exist, err := bkt.HeadObject(ctx, "test/example.txt")
	assert.NoError(t, err)
	assert.False(t, exist)
}

func TestBucket_DefaultACL(t *testing.T) {
	bkt := newTestBucket(t)
	policy, err := bkt.GetBucketACL(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "O", policy.Owner.ID)
	assert.Len(t, policy.Grants, 1)
	assert.Equal(t, osa.PermissionFullControl, policy.Grants[0].Permission)
	assert.Equal(t, "O", policy.Grants[0].Grantee.ID)
}

func TestBucket_PutBucketACL(t *testing.T) {
	bkt := newTestBucket(t)
	want := &osa.AccessControlPolicy{
		Owner: osa.Grantee{ID: "O", DisplayName: "Owner", Type: osa.GranteeCanonicalUser},
		Grants: []osa.Grant{
			{Grantee: osa.Grantee{ID: "g1", Type: osa.GranteeCanonicalUser}, Permission: osa.PermissionRead},
		},
	}
	err := bkt.PutBucketACL(ctx, want)
	assert.NoError(t, err)
	got, err := bkt.GetBucketACL(ctx)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBucket_ObjectACL_NotFound(t *testing.T) {
	bkt := newTestBucket(t)
	_, err := bkt.GetObjectACL(ctx, "missing.txt")
	assert.ErrorIs(t, err, osa.ObjectNotFound)
	err = bkt.PutObjectACL(ctx, "missing.txt", &osa.AccessControlPolicy{})
	assert.ErrorIs(t, err, osa.ObjectNotFound)
}

func TestBucket_ObjectACL(t *testing.T) {
	bkt := newTestBucket(t)
	err := bkt.PutObject(ctx, "test/example.txt", strings.NewReader("some text"))
	assert.NoError(t, err)

	policy, err := bkt.GetObjectACL(ctx, "test/example.txt")
	assert.NoError(t, err)
	assert.Equal(t, "O", policy.Owner.ID)

	policy.Grants = append(policy.Grants, osa.Grant{
		Grantee:    osa.Grantee{ID: "U2", Type: osa.GranteeCanonicalUser},
		Permission: osa.PermissionRead,
	})
	err = bkt.PutObjectACL(ctx, "test/example.txt", policy)
	assert.NoError(t, err)

	got, err := bkt.GetObjectACL(ctx, "test/example.txt")
	assert.NoError(t, err)
	assert.Equal(t, policy, got)
}

func TestMerger_BucketGrant_EndToEnd(t *testing.T) {
	bkt := newTestBucket(t)
	owner := osa.Grantee{ID: "O", DisplayName: "Owner", Type: osa.GranteeCanonicalUser}
	seed := &osa.AccessControlPolicy{
		Owner: owner,
		Grants: []osa.Grant{
			{Grantee: osa.Grantee{ID: "g1", DisplayName: "One", Type: osa.GranteeGroup}, Permission: osa.PermissionRead},
		},
	}
	assert.NoError(t, bkt.PutBucketACL(ctx, seed))

	merger := osa.NewMerger(nil)
	assert.NoError(t, merger.ApplyBucketGrant(ctx, bkt, "U2", "WRITE"))

	got, err := bkt.GetBucketACL(ctx)
	assert.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, []osa.Grant{
		{Grantee: osa.Grantee{ID: "g1", DisplayName: "One", Type: osa.GranteeCanonicalUser}, Permission: osa.PermissionRead},
		{Grantee: osa.Grantee{ID: "U2", Type: osa.GranteeCanonicalUser}, Permission: osa.PermissionWrite},
	}, got.Grants)
}

func TestMerger_ObjectGrant_EndToEnd(t *testing.T) {
	bkt := newTestBucket(t)
	assert.NoError(t, bkt.PutObject(ctx, "test/example.txt", strings.NewReader("some text")))

	merger := osa.NewMerger(nil)
	assert.NoError(t, merger.ApplyObjectGrant(ctx, bkt, "test/example.txt", "U2", "READ_ACP"))

	got, err := bkt.GetObjectACL(ctx, "test/example.txt")
	assert.NoError(t, err)
	assert.Len(t, got.Grants, 2)
	assert.Equal(t, osa.Grant{
		Grantee:    osa.Grantee{ID: "U2", Type: osa.GranteeCanonicalUser},
		Permission: osa.PermissionReadACP,
	}, got.Grants[1])
}

func TestUploader_EndToEnd(t *testing.T) {
	bkt := newTestBucket(t)
	name := filepath.Join(t.TempDir(), "example.txt")
	assert.NoError(t, os.WriteFile(name, []byte("some text"), 0644))

	uploader := osa.NewUploader(nil)
	upload, err := uploader.Submit(ctx, bkt, "test/example.txt", name)
	assert.NoError(t, err)

	outcome, err := upload.Wait(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Success())

	exist, err := bkt.HeadObject(ctx, "test/example.txt")
	assert.NoError(t, err)
	assert.True(t, exist)
}
