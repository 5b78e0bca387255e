package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/burybell/osa"
)

const (
	Name = "local"
)

type Config struct {
	BasePath  string `yaml:"base_path" mapstructure:"base_path" json:"base_path"`
	OwnerID   string `yaml:"owner_id" mapstructure:"owner_id" json:"owner_id"`
	OwnerName string `yaml:"owner_name" mapstructure:"owner_name" json:"owner_name"`
}

type ObjectStore struct {
	config Config
}

func NewObjectStore(config Config) (osa.Store, error) {
	if config.OwnerID == "" {
		config.OwnerID = "local"
	}
	stat, err := os.Stat(config.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			err = os.MkdirAll(config.BasePath, os.ModePerm)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	} else {
		if !stat.IsDir() {
			return nil, errors.New("base path is not a directory")
		}
	}
	return &ObjectStore{config: config}, nil
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
	bucketPath := filepath.Join(t.config.BasePath, name)
	var bucketErr error
	stat, err := os.Stat(bucketPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = os.MkdirAll(bucketPath, os.ModePerm)
			if err != nil {
				bucketErr = err
			}
		} else {
			bucketErr = err
		}
	} else {
		if !stat.IsDir() {
			bucketErr = errors.New("bucket path is not a directory")
		}
	}

	return &bucket{
		bucket:    name,
		config:    t.config,
		bucketErr: bucketErr,
	}
}

type bucket struct {
	config    Config
	bucket    string
	bucketErr error
}

func (t *bucket) fullPath(path string) string {
	return filepath.Join(t.config.BasePath, t.bucket, path)
}

// Policies live outside the bucket directory so they can never collide
// with object paths.
func (t *bucket) bucketPolicyPath() string {
	return filepath.Join(t.config.BasePath, ".acl", t.bucket, "bucket.json")
}

func (t *bucket) objectPolicyPath(path string) string {
	return filepath.Join(t.config.BasePath, ".acl", t.bucket, "objects", path+".json")
}

func (t *bucket) owner() osa.Grantee {
	return osa.Grantee{
		ID:          t.config.OwnerID,
		DisplayName: t.config.OwnerName,
		Type:        osa.GranteeCanonicalUser,
	}
}

func (t *bucket) defaultPolicy() *osa.AccessControlPolicy {
	owner := t.owner()
	return &osa.AccessControlPolicy{
		Owner:  owner,
		Grants: []osa.Grant{{Grantee: owner, Permission: osa.PermissionFullControl}},
	}
}

func (t *bucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	if t.bucketErr != nil {
		return t.bucketErr
	}
	err := os.MkdirAll(filepath.Dir(t.fullPath(path)), os.ModePerm)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(t.fullPath(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, reader)
	return err
}

func (t *bucket) HeadObject(ctx context.Context, path string) (bool, error) {
	if t.bucketErr != nil {
		return false, t.bucketErr
	}
	_, err := os.Stat(t.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *bucket) DeleteObject(ctx context.Context, path string) error {
	if t.bucketErr != nil {
		return t.bucketErr
	}
	_ = os.Remove(t.objectPolicyPath(path))
	return os.Remove(t.fullPath(path))
}

func (t *bucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	if t.bucketErr != nil {
		return nil, t.bucketErr
	}
	return t.readPolicy(t.bucketPolicyPath())
}

func (t *bucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	if t.bucketErr != nil {
		return t.bucketErr
	}
	return t.writePolicy(t.bucketPolicyPath(), policy)
}

func (t *bucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	if t.bucketErr != nil {
		return nil, t.bucketErr
	}
	if exist, err := t.HeadObject(ctx, path); err != nil {
		return nil, err
	} else if !exist {
		return nil, osa.ObjectNotFound
	}
	return t.readPolicy(t.objectPolicyPath(path))
}

func (t *bucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	if t.bucketErr != nil {
		return t.bucketErr
	}
	if exist, err := t.HeadObject(ctx, path); err != nil {
		return err
	} else if !exist {
		return osa.ObjectNotFound
	}
	return t.writePolicy(t.objectPolicyPath(path), policy)
}

func (t *bucket) readPolicy(name string) (*osa.AccessControlPolicy, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return t.defaultPolicy(), nil
		}
		return nil, err
	}
	var policy osa.AccessControlPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, osa.NewStoreError("MalformedACL", fmt.Sprintf("decode %s: %v", name, err))
	}
	return &policy, nil
}

func (t *bucket) writePolicy(name string, policy *osa.AccessControlPolicy) error {
	if err := os.MkdirAll(filepath.Dir(name), os.ModePerm); err != nil {
		return err
	}
	data, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0644)
}
