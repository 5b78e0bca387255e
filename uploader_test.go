package osa_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/burybell/osa"
	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "example.txt")
	err := os.WriteFile(name, []byte(content), 0644)
	assert.NoError(t, err)
	return name
}

func TestUploader_Submit_NoSuchFile(t *testing.T) {
	bkt := newStubBucket()
	uploader := osa.NewUploader(nil)

	upload, err := uploader.Submit(ctx, bkt, "test/example.txt", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, osa.ErrNoSuchFile)
	assert.Nil(t, upload)

	// The precondition failure never reaches the store.
	assert.Zero(t, bkt.putObjectCalls)
}

func TestUploader_Submit(t *testing.T) {
	bkt := newStubBucket()
	uploader := osa.NewUploader(nil)

	upload, err := uploader.Submit(ctx, bkt, "test/example.txt", writeTempFile(t, "some text"))
	assert.NoError(t, err)

	outcome, err := upload.Wait(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Success())
	assert.Equal(t, "test/example.txt", outcome.Key)
	assert.Equal(t, []byte("some text"), bkt.objects["test/example.txt"])
}

func TestUploader_Submit_StoreError(t *testing.T) {
	bkt := newStubBucket()
	bkt.putObjectErr = osa.NewStoreError("AccessDenied", "access denied")
	uploader := osa.NewUploader(nil)

	upload, err := uploader.Submit(ctx, bkt, "test/example.txt", writeTempFile(t, "some text"))
	assert.NoError(t, err)

	outcome, err := upload.Wait(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Success())
	assert.Equal(t, "AccessDenied", osa.AsStoreError(outcome.Err).Code)
}

func TestUpload_WaitTimeout(t *testing.T) {
	bkt := newStubBucket()
	bkt.putObjectGate = make(chan struct{})
	uploader := osa.NewUploader(nil)

	upload, err := uploader.Submit(ctx, bkt, "test/example.txt", writeTempFile(t, "some text"))
	assert.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = upload.Wait(waitCtx)
	assert.ErrorIs(t, err, osa.ErrWaitTimeout)

	// Release the store call; the same handle then reports completion, and
	// keeps reporting the same outcome on repeated waits.
	close(bkt.putObjectGate)
	outcome, err := upload.Wait(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Success())

	again, err := upload.Wait(ctx)
	assert.NoError(t, err)
	assert.Equal(t, outcome, again)
}
