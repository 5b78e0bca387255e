package main

import (
	"context"

	"github.com/burybell/osa"
	"github.com/spf13/cobra"
)

var (
	granteeID      string
	permissionName string
	verifyACL      bool
)

var setACLCmd = &cobra.Command{
	Use:   "set-acl <bucket> [key]",
	Short: "Add a grant to a bucket or object ACL",
	Long: `Fetches the target's current access control policy, appends a grant for
the given grantee, and writes the whole policy back. With a key the grant
applies to that object, otherwise to the bucket itself.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		bkt := store.Bucket(args[0])

		merger := osa.NewMerger(logger)
		merger.VerifyAfterWrite = verifyACL

		ctx := context.Background()
		if len(args) == 2 {
			return merger.ApplyObjectGrant(ctx, bkt, args[1], granteeID, permissionName)
		}
		return merger.ApplyBucketGrant(ctx, bkt, granteeID, permissionName)
	},
}

func init() {
	setACLCmd.Flags().StringVar(&granteeID, "grantee", "", "canonical user id receiving the permission")
	setACLCmd.Flags().StringVar(&permissionName, "permission", "", "permission to grant (FULL_CONTROL, WRITE, READ, WRITE_ACP, READ_ACP)")
	setACLCmd.Flags().BoolVar(&verifyACL, "verify", false, "re-fetch and print the bucket policy after writing")
	_ = setACLCmd.MarkFlagRequired("grantee")
	_ = setACLCmd.MarkFlagRequired("permission")
	rootCmd.AddCommand(setACLCmd)
}
