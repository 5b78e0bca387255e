package sugar_test

import (
	"context"
	"strings"
	"testing"

	"github.com/burybell/osa/local"
	"github.com/burybell/osa/sugar"
	"github.com/stretchr/testify/assert"
)

func TestNewStore_Local(t *testing.T) {
	store, err := sugar.NewStore(sugar.UseLocal(local.Config{BasePath: t.TempDir()}))
	assert.NoError(t, err)
	assert.Equal(t, local.Name, store.Name())

	bkt := store.Bucket("example")
	err = bkt.PutObject(context.Background(), "test/example.txt", strings.NewReader("some text"))
	assert.NoError(t, err)

	policy, err := bkt.GetObjectACL(context.Background(), "test/example.txt")
	assert.NoError(t, err)
	assert.NotEmpty(t, policy.Grants)
}

func TestNewStore_Unknown(t *testing.T) {
	store, err := sugar.NewStore(func(opts *sugar.Options) { opts.UseName = "bogus" })
	assert.Error(t, err)
	assert.Nil(t, store)
}
