package s3

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/burybell/osa"
)

const (
	Name = "s3"
)

type Config struct {
	Region string `yaml:"region" mapstructure:"region" json:"region"`
	KeyID  string `yaml:"key_id" mapstructure:"key_id" json:"key_id"`
	Secret string `yaml:"secret" mapstructure:"secret" json:"secret"`
}

type ObjectStore struct {
	config Config
	client *s3.S3
}

func NewObjectStore(config Config) (osa.Store, error) {
	cfg := aws.NewConfig()
	if config.Region != "" {
		cfg = cfg.WithRegion(config.Region)
	}
	if config.KeyID != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(config.KeyID, config.Secret, ""))
	}
	provider, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return &ObjectStore{config: config, client: s3.New(provider)}, nil
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
	client *s3.S3
	bucket string
}

func (t *bucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	// PutObject wants a ReadSeeker, so spool through a temp file.
	temp, err := os.CreateTemp("", "osa")
	if err != nil {
		return err
	}
	_, _ = io.Copy(temp, reader)
	_ = temp.Close()

	f, err := os.Open(temp.Name())
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(temp.Name())
	}()
	_, err = t.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      &t.bucket,
		Key:         &path,
		Body:        f,
		ContentType: aws.String(mime.TypeByExtension(filepath.Ext(path))),
	})
	return wrapError(err)
}

func (t *bucket) HeadObject(ctx context.Context, path string) (bool, error) {
	_, err := t.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{Bucket: &t.bucket, Key: &path})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == "NotFound" {
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}

func (t *bucket) DeleteObject(ctx context.Context, path string) error {
	_, err := t.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{Bucket: &t.bucket, Key: &path})
	return wrapError(err)
}

func (t *bucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	out, err := t.client.GetBucketAclWithContext(ctx, &s3.GetBucketAclInput{Bucket: &t.bucket})
	if err != nil {
		return nil, wrapError(err)
	}
	return fromGrants(out.Owner, out.Grants), nil
}

func (t *bucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	_, err := t.client.PutBucketAclWithContext(ctx, &s3.PutBucketAclInput{
		Bucket:              &t.bucket,
		AccessControlPolicy: toAccessControlPolicy(policy),
	})
	return wrapError(err)
}

func (t *bucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	out, err := t.client.GetObjectAclWithContext(ctx, &s3.GetObjectAclInput{Bucket: &t.bucket, Key: &path})
	if err != nil {
		return nil, wrapError(err)
	}
	return fromGrants(out.Owner, out.Grants), nil
}

func (t *bucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	_, err := t.client.PutObjectAclWithContext(ctx, &s3.PutObjectAclInput{
		Bucket:              &t.bucket,
		Key:                 &path,
		AccessControlPolicy: toAccessControlPolicy(policy),
	})
	return wrapError(err)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if aerr, ok := err.(awserr.Error); ok {
		if aerr.Code() == "NoSuchKey" {
			return osa.ObjectNotFound
		}
		return osa.NewStoreError(aerr.Code(), aerr.Message())
	}
	return err
}

func fromGrants(owner *s3.Owner, grants []*s3.Grant) *osa.AccessControlPolicy {
	policy := &osa.AccessControlPolicy{}
	if owner != nil {
		policy.Owner = osa.Grantee{
			ID:          aws.StringValue(owner.ID),
			DisplayName: aws.StringValue(owner.DisplayName),
			Type:        osa.GranteeCanonicalUser,
		}
	}
	for _, grant := range grants {
		if grant == nil || grant.Grantee == nil {
			continue
		}
		policy.Grants = append(policy.Grants, osa.Grant{
			Grantee: osa.Grantee{
				ID:          aws.StringValue(grant.Grantee.ID),
				DisplayName: aws.StringValue(grant.Grantee.DisplayName),
				Type:        granteeTypeFromAWS(aws.StringValue(grant.Grantee.Type)),
			},
			Permission: osa.MapPermission(aws.StringValue(grant.Permission)),
		})
	}
	return policy
}

func toAccessControlPolicy(policy *osa.AccessControlPolicy) *s3.AccessControlPolicy {
	acp := &s3.AccessControlPolicy{
		Owner: &s3.Owner{ID: aws.String(policy.Owner.ID)},
	}
	if policy.Owner.DisplayName != "" {
		acp.Owner.DisplayName = aws.String(policy.Owner.DisplayName)
	}
	for _, grant := range policy.Grants {
		acp.Grants = append(acp.Grants, &s3.Grant{
			Grantee: &s3.Grantee{
				ID:   aws.String(grant.Grantee.ID),
				Type: aws.String(granteeTypeToAWS(grant.Grantee.Type)),
			},
			Permission: aws.String(string(grant.Permission)),
		})
	}
	return acp
}

func granteeTypeFromAWS(name string) osa.GranteeType {
	switch name {
	case s3.TypeGroup:
		return osa.GranteeGroup
	case s3.TypeAmazonCustomerByEmail:
		return osa.GranteeEmailAddress
	default:
		return osa.GranteeCanonicalUser
	}
}

func granteeTypeToAWS(granteeType osa.GranteeType) string {
	switch granteeType {
	case osa.GranteeGroup:
		return s3.TypeGroup
	case osa.GranteeEmailAddress:
		return s3.TypeAmazonCustomerByEmail
	default:
		return s3.TypeCanonicalUser
	}
}
