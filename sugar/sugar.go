package sugar

import (
	"errors"

	"github.com/burybell/osa"
	"github.com/burybell/osa/aliyun"
	"github.com/burybell/osa/cos"
	"github.com/burybell/osa/local"
	"github.com/burybell/osa/minio"
	"github.com/burybell/osa/obs"
	"github.com/burybell/osa/s3"
)

type Options struct {
	S3      s3.Config
	COS     cos.Config
	OBS     obs.Config
	AliYun  aliyun.Config
	Minio   minio.Config
	Local   local.Config
	UseName string
}

type Option func(opts *Options)

func UseS3(config s3.Config) Option {
	return func(opts *Options) {
		opts.S3 = config
		opts.UseName = s3.Name
	}
}

func UseCOS(config cos.Config) Option {
	return func(opts *Options) {
		opts.COS = config
		opts.UseName = cos.Name
	}
}

func UseOBS(config obs.Config) Option {
	return func(opts *Options) {
		opts.OBS = config
		opts.UseName = obs.Name
	}
}

func UseAliYun(config aliyun.Config) Option {
	return func(opts *Options) {
		opts.AliYun = config
		opts.UseName = aliyun.Name
	}
}

func UseMinio(config minio.Config) Option {
	return func(opts *Options) {
		opts.Minio = config
		opts.UseName = minio.Name
	}
}

func UseLocal(config local.Config) Option {
	return func(opts *Options) {
		opts.Local = config
		opts.UseName = local.Name
	}
}

func NewStore(opt ...Option) (osa.Store, error) {
	opts := &Options{}
	for _, opt := range opt {
		opt(opts)
	}

	if opts.UseName == "" {
		opts.UseName = local.Name
		opts.Local = local.Config{BasePath: "/tmp"}
	}

	switch opts.UseName {
	case s3.Name:
		return s3.NewObjectStore(opts.S3)
	case cos.Name:
		return cos.NewObjectStore(opts.COS)
	case obs.Name:
		return obs.NewObjectStore(opts.OBS)
	case aliyun.Name:
		return aliyun.NewObjectStore(opts.AliYun)
	case minio.Name:
		return minio.NewObjectStore(opts.Minio)
	case local.Name:
		return local.NewObjectStore(opts.Local)
	default:
		return nil, errors.New("no support objectstore")
	}
}

func MustNewStore(opt ...Option) osa.Store {
	store, err := NewStore(opt...)
	if err != nil {
		panic(err)
	}
	return store
}
