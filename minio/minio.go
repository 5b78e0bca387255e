package minio

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"

	"github.com/burybell/osa"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	Name = "minio"
)

type Config struct {
	Region   string `yaml:"region" mapstructure:"region" json:"region"`
	KeyID    string `yaml:"key_id" mapstructure:"key_id" json:"key_id"`
	Secret   string `yaml:"secret" mapstructure:"secret" json:"secret"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	UseSSL   bool   `yaml:"use_ssl" mapstructure:"use_ssl" json:"use_ssl"`
}

type ObjectStore struct {
	config Config
	client *minio.Client
}

func NewObjectStore(config Config) (osa.Store, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.KeyID, config.Secret, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
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
	client *minio.Client
	bucket string
}

func (t *bucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(path))}
	_, err := t.client.PutObject(ctx, t.bucket, path, reader, -1, opts)
	return wrapError(err)
}

func (t *bucket) HeadObject(ctx context.Context, path string) (bool, error) {
	_, err := t.client.StatObject(ctx, t.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		var minioErr minio.ErrorResponse
		if errors.As(err, &minioErr) && minioErr.Code == "NoSuchKey" {
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}

func (t *bucket) DeleteObject(ctx context.Context, path string) error {
	return wrapError(t.client.RemoveObject(ctx, t.bucket, path, minio.RemoveObjectOptions{}))
}

func (t *bucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	return nil, osa.ErrACLNotSupported
}

func (t *bucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	return osa.ErrACLNotSupported
}

func (t *bucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	info, err := t.client.GetObjectACL(ctx, t.bucket, path)
	if err != nil {
		return nil, wrapError(err)
	}
	policy := &osa.AccessControlPolicy{
		Owner: osa.Grantee{
			ID:          info.Owner.ID,
			DisplayName: info.Owner.DisplayName,
			Type:        osa.GranteeCanonicalUser,
		},
	}
	for _, grant := range info.Grant {
		policy.Grants = append(policy.Grants, osa.Grant{
			Grantee: osa.Grantee{
				ID:          grant.Grantee.ID,
				DisplayName: grant.Grantee.DisplayName,
				Type:        osa.GranteeCanonicalUser,
			},
			Permission: osa.MapPermission(grant.Permission),
		})
	}
	return policy, nil
}

// The vendor API has no put-ACL call.
func (t *bucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	return osa.ErrACLNotSupported
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		if minioErr.Code == "NoSuchKey" {
			return osa.ObjectNotFound
		}
		return osa.NewStoreError(minioErr.Code, minioErr.Message)
	}
	return err
}
