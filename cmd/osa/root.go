package main

import (
	"errors"
	"os"

	"github.com/burybell/osa"
	"github.com/burybell/osa/aliyun"
	"github.com/burybell/osa/cos"
	"github.com/burybell/osa/local"
	"github.com/burybell/osa/minio"
	"github.com/burybell/osa/obs"
	"github.com/burybell/osa/s3"
	"github.com/burybell/osa/sugar"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Each error class gets its own exit code so scripts can tell a failed
// fetch from a failed write.
const (
	exitErr           = 1
	exitNoSuchFile    = 3
	exitBadPermission = 4
	exitFetchFailed   = 5
	exitWriteFailed   = 6
	exitTimedOut      = 7
)

var (
	cfgFile   string
	storeName string
	verbose   bool
	logger    = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "osa",
	Short: "Object storage upload and ACL tool",
	Long:  `Uploads single objects and edits bucket or object access control policies across S3-compatible stores.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var opErr *osa.OpError
	switch {
	case errors.Is(err, osa.ErrNoSuchFile):
		return exitNoSuchFile
	case errors.Is(err, osa.ErrUnknownPermission):
		return exitBadPermission
	case errors.Is(err, osa.ErrWaitTimeout):
		return exitTimedOut
	case errors.As(err, &opErr):
		if opErr.Op == osa.OpFetch {
			return exitFetchFailed
		}
		return exitWriteFailed
	}
	return exitErr
}

func initConfig() error {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.SetConfigName("osa")
	}
	viper.SetDefault("use_name", local.Name)
	viper.SetDefault("local.base_path", "/tmp/osa")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			// No config file at all still works with the local defaults.
			return nil
		}
		return pkgerrors.Wrap(err, "failed to load config")
	}
	return nil
}

func newStore() (osa.Store, error) {
	name := storeName
	if name == "" {
		name = viper.GetString("use_name")
	}
	switch name {
	case s3.Name:
		var config s3.Config
		if err := viper.UnmarshalKey("s3", &config); err != nil {
			return nil, err
		}
		return sugar.NewStore(sugar.UseS3(config))
	case cos.Name:
		var config cos.Config
		if err := viper.UnmarshalKey("cos", &config); err != nil {
			return nil, err
		}
		return sugar.NewStore(sugar.UseCOS(config))
	case obs.Name:
		var config obs.Config
		if err := viper.UnmarshalKey("obs", &config); err != nil {
			return nil, err
		}
		return sugar.NewStore(sugar.UseOBS(config))
	case aliyun.Name:
		var config aliyun.Config
		if err := viper.UnmarshalKey("aliyun", &config); err != nil {
			return nil, err
		}
		return sugar.NewStore(sugar.UseAliYun(config))
	case minio.Name:
		var config minio.Config
		if err := viper.UnmarshalKey("minio", &config); err != nil {
			return nil, err
		}
		return sugar.NewStore(sugar.UseMinio(config))
	case local.Name:
		var config local.Config
		if err := viper.UnmarshalKey("local", &config); err != nil {
			return nil, err
		}
		return sugar.NewStore(sugar.UseLocal(config))
	default:
		return nil, pkgerrors.Errorf("unknown store %q", name)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/osa.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "object store to use (s3, cos, obs, aliyun, minio, local)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
