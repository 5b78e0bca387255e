package aliyun

import (
	"context"
	"errors"
	"fmt"
	"io"

	aliyun "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/burybell/osa"
)

const (
	Name = "aliyun"
)

// AllUsersID marks the synthesized grantee for public canned ACLs.
const AllUsersID = "AllUsers"

type Config struct {
	Region   string `yaml:"region" mapstructure:"region" json:"region"`
	KeyID    string `yaml:"key_id" mapstructure:"key_id" json:"key_id"`
	Secret   string `yaml:"secret" mapstructure:"secret" json:"secret"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
}

type ObjectStore struct {
	config Config
	client *aliyun.Client
}

func NewObjectStore(config Config) (osa.Store, error) {
	if config.Endpoint == "" {
		config.Endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", config.Region)
	}
	client, err := aliyun.New(config.Endpoint, config.KeyID, config.Secret)
	if err != nil {
		return nil, err
	}
	return &ObjectStore{config: config, client: client}, nil
}

func MustNewObjectStore(config Config) osa.Store {
	store, err := NewObjectStore(config)
	if err != nil {
		panic(err)
	}
	return store
}

func (t *ObjectStore) Name() string {
	return Name
}

func (t *ObjectStore) Bucket(name string) osa.Bucket {
	return &bucket{config: t.config, client: t.client, bucket: name}
}

// The vendor API only exposes canned ACLs, so grant-level policies are
// mapped to and from the nearest canned value.
type bucket struct {
	config Config
	client *aliyun.Client
	bucket string
}

func (t *bucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	bkt, err := t.client.Bucket(t.bucket)
	if err != nil {
		return err
	}
	return wrapError(bkt.PutObject(path, reader))
}

func (t *bucket) HeadObject(ctx context.Context, path string) (bool, error) {
	bkt, err := t.client.Bucket(t.bucket)
	if err != nil {
		return false, err
	}
	exist, err := bkt.IsObjectExist(path)
	return exist, wrapError(err)
}

func (t *bucket) DeleteObject(ctx context.Context, path string) error {
	bkt, err := t.client.Bucket(t.bucket)
	if err != nil {
		return err
	}
	return wrapError(bkt.DeleteObject(path))
}

func (t *bucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	result, err := t.client.GetBucketACL(t.bucket)
	if err != nil {
		return nil, wrapError(err)
	}
	owner := osa.Grantee{ID: result.Owner.ID, DisplayName: result.Owner.DisplayName, Type: osa.GranteeCanonicalUser}
	return &osa.AccessControlPolicy{Owner: owner, Grants: grantsFromCanned(result.ACL, owner)}, nil
}

func (t *bucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	return wrapError(t.client.SetBucketACL(t.bucket, cannedFromGrants(policy)))
}

func (t *bucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	bkt, err := t.client.Bucket(t.bucket)
	if err != nil {
		return nil, err
	}
	result, err := bkt.GetObjectACL(path)
	if err != nil {
		return nil, wrapError(err)
	}
	owner := osa.Grantee{ID: result.Owner.ID, DisplayName: result.Owner.DisplayName, Type: osa.GranteeCanonicalUser}
	return &osa.AccessControlPolicy{Owner: owner, Grants: grantsFromCanned(result.ACL, owner)}, nil
}

func (t *bucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	bkt, err := t.client.Bucket(t.bucket)
	if err != nil {
		return err
	}
	return wrapError(bkt.SetObjectACL(path, cannedFromGrants(policy)))
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var serviceErr aliyun.ServiceError
	if errors.As(err, &serviceErr) {
		if serviceErr.Code == "NoSuchKey" {
			return osa.ObjectNotFound
		}
		return osa.NewStoreError(serviceErr.Code, serviceErr.Message)
	}
	return err
}

// grantsFromCanned synthesizes a grant list for a canned ACL: the owner
// always holds FULL_CONTROL, and the public variants add AllUsers grants.
func grantsFromCanned(acl string, owner osa.Grantee) []osa.Grant {
	grants := []osa.Grant{{Grantee: owner, Permission: osa.PermissionFullControl}}
	allUsers := osa.Grantee{ID: AllUsersID, Type: osa.GranteeGroup}
	switch acl {
	case string(aliyun.ACLPublicRead):
		grants = append(grants, osa.Grant{Grantee: allUsers, Permission: osa.PermissionRead})
	case string(aliyun.ACLPublicReadWrite):
		grants = append(grants,
			osa.Grant{Grantee: allUsers, Permission: osa.PermissionRead},
			osa.Grant{Grantee: allUsers, Permission: osa.PermissionWrite})
	}
	return grants
}

// cannedFromGrants reduces a grant list to the nearest canned ACL, the
// same way the read path widens public permissions.
func cannedFromGrants(policy *osa.AccessControlPolicy) aliyun.ACLType {
	permissions := make(map[osa.Permission]int)
	for _, grant := range policy.Grants {
		if grant.Grantee.ID == policy.Owner.ID {
			continue
		}
		permissions[grant.Permission] = 1
	}
	if permissions[osa.PermissionFullControl] == 1 || (permissions[osa.PermissionRead] == 1 && permissions[osa.PermissionWrite] == 1) {
		return aliyun.ACLPublicReadWrite
	}
	if permissions[osa.PermissionRead] == 1 {
		return aliyun.ACLPublicRead
	}
	return aliyun.ACLPrivate
}
