package cos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/burybell/osa"
	"github.com/tencentyun/cos-go-sdk-v5"
)

const (
	Name = "cos"
)

type Config struct {
	Region string `yaml:"region" mapstructure:"region" json:"region"`
	KeyID  string `yaml:"key_id" mapstructure:"key_id" json:"key_id"`
	Secret string `yaml:"secret" mapstructure:"secret" json:"secret"`
}

type ObjectStore struct {
	config Config
	client *cos.Client
}

func NewObjectStore(config Config) (osa.Store, error) {
	su, err := url.Parse(fmt.Sprintf("https://cos.%s.myqcloud.com", config.Region))
	if err != nil {
		return nil, err
	}
	b := &cos.BaseURL{ServiceURL: su}
	client := cos.NewClient(b, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.KeyID,
			SecretKey: config.Secret,
		},
	})
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
	bucketURL, _ := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", name, t.config.Region))
	return &bucket{
		config: t.config,
		client: cos.NewClient(&cos.BaseURL{
			ServiceURL: t.client.BaseURL.ServiceURL,
			BucketURL:  bucketURL,
		}, &http.Client{
			Transport: &cos.AuthorizationTransport{
				SecretID:  t.config.KeyID,
				SecretKey: t.config.Secret,
			},
		}),
		bucket: name,
	}
}

type bucket struct {
	config Config
	client *cos.Client
	bucket string
}

func (t *bucket) PutObject(ctx context.Context, path string, reader io.Reader) error {
	_, err := t.client.Object.Put(ctx, path, reader, nil)
	return wrapError(err)
}

func (t *bucket) HeadObject(ctx context.Context, path string) (bool, error) {
	exist, err := t.client.Object.IsExist(ctx, path)
	return exist, wrapError(err)
}

func (t *bucket) DeleteObject(ctx context.Context, path string) error {
	_, err := t.client.Object.Delete(ctx, path, nil)
	return wrapError(err)
}

func (t *bucket) GetBucketACL(ctx context.Context) (*osa.AccessControlPolicy, error) {
	acl, resp, err := t.client.Bucket.GetACL(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	_ = resp.Body.Close()
	return fromACLXml(acl.Owner, acl.AccessControlList), nil
}

func (t *bucket) PutBucketACL(ctx context.Context, policy *osa.AccessControlPolicy) error {
	resp, err := t.client.Bucket.PutACL(ctx, &cos.BucketPutACLOptions{Body: toACLXml(policy)})
	if err != nil {
		return wrapError(err)
	}
	_ = resp.Body.Close()
	return nil
}

func (t *bucket) GetObjectACL(ctx context.Context, path string) (*osa.AccessControlPolicy, error) {
	acl, resp, err := t.client.Object.GetACL(ctx, path)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, osa.ObjectNotFound
		}
		return nil, wrapError(err)
	}
	_ = resp.Body.Close()
	return fromACLXml(acl.Owner, acl.AccessControlList), nil
}

func (t *bucket) PutObjectACL(ctx context.Context, path string, policy *osa.AccessControlPolicy) error {
	resp, err := t.client.Object.PutACL(ctx, path, &cos.ObjectPutACLOptions{Body: toACLXml(policy)})
	if err != nil {
		if cos.IsNotFoundError(err) {
			return osa.ObjectNotFound
		}
		return wrapError(err)
	}
	_ = resp.Body.Close()
	return nil
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var errResp *cos.ErrorResponse
	if errors.As(err, &errResp) {
		return osa.NewStoreError(errResp.Code, errResp.Message)
	}
	return err
}

func fromACLXml(owner *cos.Owner, grants []cos.ACLGrant) *osa.AccessControlPolicy {
	policy := &osa.AccessControlPolicy{}
	if owner != nil {
		policy.Owner = osa.Grantee{
			ID:          owner.ID,
			DisplayName: owner.DisplayName,
			Type:        osa.GranteeCanonicalUser,
		}
	}
	for _, grant := range grants {
		if grant.Grantee == nil {
			continue
		}
		policy.Grants = append(policy.Grants, osa.Grant{
			Grantee: osa.Grantee{
				ID:          grant.Grantee.ID,
				DisplayName: grant.Grantee.DisplayName,
				Type:        granteeTypeFromCOS(grant.Grantee.Type),
			},
			Permission: osa.MapPermission(grant.Permission),
		})
	}
	return policy
}

func toACLXml(policy *osa.AccessControlPolicy) *cos.ACLXml {
	acl := &cos.ACLXml{
		Owner: &cos.Owner{ID: policy.Owner.ID, DisplayName: policy.Owner.DisplayName},
	}
	for _, grant := range policy.Grants {
		acl.AccessControlList = append(acl.AccessControlList, cos.ACLGrant{
			Grantee: &cos.ACLGrantee{
				Type: granteeTypeToCOS(grant.Grantee.Type),
				ID:   grant.Grantee.ID,
			},
			Permission: string(grant.Permission),
		})
	}
	return acl
}

func granteeTypeFromCOS(name string) osa.GranteeType {
	if name == "Group" {
		return osa.GranteeGroup
	}
	return osa.GranteeCanonicalUser
}

func granteeTypeToCOS(granteeType osa.GranteeType) string {
	if granteeType == osa.GranteeGroup {
		return "Group"
	}
	return "CanonicalUser"
}
