package main

import (
	"context"
	"fmt"
	"time"

	"github.com/burybell/osa"
	"github.com/spf13/cobra"
)

var uploadTimeout time.Duration

var uploadCmd = &cobra.Command{
	Use:   "upload <bucket> <key> <file>",
	Short: "Upload a file to a bucket and wait for completion",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		bkt := store.Bucket(args[0])

		ctx := context.Background()
		if uploadTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, uploadTimeout)
			defer cancel()
		}

		uploader := osa.NewUploader(logger)
		upload, err := uploader.Submit(ctx, bkt, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Println("Waiting for file upload to complete...")
		outcome, err := upload.Wait(ctx)
		if err != nil {
			return err
		}
		if !outcome.Success() {
			return outcome.Err
		}
		fmt.Println("File upload completed")
		return nil
	},
}

func init() {
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 5*time.Minute, "maximum time to wait for completion (0 waits forever)")
	rootCmd.AddCommand(uploadCmd)
}
