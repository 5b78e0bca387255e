package osa

import (
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// UploadOutcome is the terminal result of one submitted upload. Key is the
// correlation id the upload was tagged with.
type UploadOutcome struct {
	Key string
	Err error
}

func (t UploadOutcome) Success() bool {
	return t.Err == nil
}

// Upload is a one-shot handle to an in-flight upload. The outcome is
// recorded exactly once; Wait may be called any number of times after that
// and always returns the same outcome.
type Upload struct {
	key     string
	done    chan struct{}
	once    sync.Once
	outcome UploadOutcome
}

func newUpload(key string) *Upload {
	return &Upload{key: key, done: make(chan struct{})}
}

func (t *Upload) complete(err error) {
	t.once.Do(func() {
		t.outcome = UploadOutcome{Key: t.key, Err: err}
		close(t.done)
	})
}

func (t *Upload) Key() string {
	return t.key
}

// Wait blocks until the upload completes or ctx expires, whichever comes
// first. An expired ctx yields ErrWaitTimeout unless the upload had
// already completed.
func (t *Upload) Wait(ctx context.Context) (UploadOutcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		select {
		case <-t.done:
			return t.outcome, nil
		default:
			return UploadOutcome{Key: t.key}, ErrWaitTimeout
		}
	}
}

// Uploader submits single-object uploads that run on their own goroutine
// while the caller decides when, and how long, to wait.
type Uploader struct {
	logger logrus.FieldLogger
}

func NewUploader(logger logrus.FieldLogger) *Uploader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Uploader{logger: logger.WithField("module", "upload")}
}

// Submit uploads filename to path in bkt. The file must already exist; a
// missing file fails with ErrNoSuchFile before anything is sent. On
// success the store call is already running and Submit has returned: use
// the Upload to wait for the result. The upload is tagged with the object
// path as its correlation id.
func (t *Uploader) Submit(ctx context.Context, bkt Bucket, path string, filename string) (*Upload, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSuchFile
		}
		return nil, err
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	upload := newUpload(path)
	go func() {
		defer file.Close()
		err := bkt.PutObject(ctx, path, file)
		if err == nil {
			t.logger.Infof("finished uploading %s", upload.Key())
		} else if storeErr := AsStoreError(err); storeErr != nil {
			t.logger.Errorf("upload %s failed: %s: %s", upload.Key(), storeErr.Code, storeErr.Message)
		} else {
			t.logger.Errorf("upload %s failed: %v", upload.Key(), err)
		}
		upload.complete(err)
	}()
	return upload, nil
}
