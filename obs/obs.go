package obs

import (
	"context"
	"fmt"
	"io"

	"github.com/burybell/osa"
	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
)

const (
	Name = "obs"
)

type Config struct {
	Region   string `yaml:"region" mapstructure:"region" json:"region"`
	KeyID    string `yaml:"key_id" mapstructure:"key_id" json:"key_id"`
	Secret   string `yaml:"secret" mapstructure:"secret" json:"secret"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
}

type ObjectStore struct {
	config Config
	client *obs.ObsClient
}

func NewObjectStore(config Config) (osa.Store, error) {
	if config.Endpoint == "" {
		config.Endpoint = fmt.Sprintf("https://obs.%s.myhuaweicloud.com", config.Region)
	}
	client, err := obs.New(config.KeyID, config.Secret, config.Endpoint)
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
	return &bucket{
		config: t.config,
		client: t.client,
		bucket: name,
	}
}

type bucket struct {
	config Config
	client *obs.ObsClient
	bucket string
}

// The vendor client has no context plumbing, matching its upstream API.

func (t *bucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	_, err := t.client.PutObject(&obs.PutObjectInput{
		PutObjectBasicInput: obs.PutObjectBasicInput{
			ObjectOperationInput: obs.ObjectOperationInput{Bucket: t.bucket, Key: path},
		},
		Body: reader,
	})
	return wrapError(err)
}

func (t *bucket) HeadObject(ctx context.Context, path string) (bool, error) {
	_, err := t.client.HeadObject(&obs.HeadObjectInput{Bucket: t.bucket, Key: path})
	if err != nil {
		if oerr, ok := err.(obs.ObsError); ok && oerr.Code == "NoSuchKey" {
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}

func (t *bucket) DeleteObject(ctx context.Context, path string) error {
	_, err := t.client.DeleteObject(&obs.DeleteObjectInput{Bucket: t.bucket, Key: path})
	return wrapError(err)
}

func (t *bucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	out, err := t.client.GetBucketAcl(t.bucket)
	if err != nil {
		return nil, wrapError(err)
	}
	return fromGrants(out.Owner, out.Grants), nil
}

func (t *bucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	_, err := t.client.SetBucketAcl(&obs.SetBucketAclInput{
		Bucket:              t.bucket,
		AccessControlPolicy: toAccessControlPolicy(policy),
	})
	return wrapError(err)
}

func (t *bucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	out, err := t.client.GetObjectAcl(&obs.GetObjectAclInput{Bucket: t.bucket, Key: path})
	if err != nil {
		return nil, wrapError(err)
	}
	return fromGrants(out.Owner, out.Grants), nil
}

func (t *bucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	_, err := t.client.SetObjectAcl(&obs.SetObjectAclInput{
		Bucket:              t.bucket,
		Key:                 path,
		AccessControlPolicy: toAccessControlPolicy(policy),
	})
	return wrapError(err)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if oerr, ok := err.(obs.ObsError); ok {
		if oerr.Code == "NoSuchKey" {
			return osa.ObjectNotFound
		}
		return osa.NewStoreError(oerr.Code, oerr.Message)
	}
	return err
}

func fromGrants(owner obs.Owner, grants []obs.Grant) *osa.AccessControlPolicy {
	policy := &osa.AccessControlPolicy{
		Owner: osa.Grantee{
			ID:          owner.ID,
			DisplayName: owner.DisplayName,
			Type:        osa.GranteeCanonicalUser,
		},
	}
	for _, grant := range grants {
		policy.Grants = append(policy.Grants, osa.Grant{
			Grantee: osa.Grantee{
				ID:          grant.Grantee.ID,
				DisplayName: grant.Grantee.DisplayName,
				Type:        granteeTypeFromOBS(grant.Grantee.Type),
			},
			Permission: osa.MapPermission(string(grant.Permission)),
		})
	}
	return policy
}

func toAccessControlPolicy(policy *osa.AccessControlPolicy) obs.AccessControlPolicy {
	acp := obs.AccessControlPolicy{
		Owner: obs.Owner{ID: policy.Owner.ID, DisplayName: policy.Owner.DisplayName},
	}
	for _, grant := range policy.Grants {
		acp.Grants = append(acp.Grants, obs.Grant{
			Grantee: obs.Grantee{
				ID:   grant.Grantee.ID,
				Type: granteeTypeToOBS(grant.Grantee.Type),
			},
			Permission: obs.PermissionType(grant.Permission),
		})
	}
	return acp
}

func granteeTypeFromOBS(granteeType obs.GranteeType) osa.GranteeType {
	if granteeType == obs.GranteeGroup {
		return osa.GranteeGroup
	}
	return osa.GranteeCanonicalUser
}

func granteeTypeToOBS(granteeType osa.GranteeType) obs.GranteeType {
	if granteeType == osa.GranteeGroup {
		return obs.GranteeGroup
	}
	return obs.GranteeUser
}
