package cmd

import (
	"context"
	"fmt"
	"log"

	"content-transfer/core/config"
	"content-transfer/core/logger"
	"content-transfer/core/storage"
	"content-transfer/feature/transfer"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendBucket string
	sendObject string
	sendPrefix string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [file]",
	Short: "Reconcile batch definitions against the repository",
	Long: `Loads batch definitions from a local JSON or YAML file, from an
S3-compatible bucket object (--object), or from every object under a bucket
prefix (--prefix), and applies each batch to the configured repository in its
own transaction.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := 0
		if len(args) == 1 {
			sources++
		}
		if sendObject != "" {
			sources++
		}
		if sendPrefix != "" {
			sources++
		}
		if sources != 1 {
			return fmt.Errorf("pass exactly one of: a file argument, --object, --prefix")
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		repo, err := buildRepository(cfg, logg)
		if err != nil {
			return err
		}
		service := transfer.NewService(repo, logg, cfg.Repository.User)
		ctx := context.Background()

		if len(args) == 1 {
			results, err := service.SendFile(ctx, args[0])
			if err != nil {
				return err
			}
			logg.Info("Batch committed", zap.String("file", args[0]), zap.Int("objects", len(results)))
			return nil
		}

		bucket := sendBucket
		if bucket == "" {
			bucket = cfg.Storage.Bucket
		}
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("bucket %q does not exist", bucket)
		}

		names := []string{sendObject}
		if sendPrefix != "" {
			names = names[:0]
			for info := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: sendPrefix, Recursive: true}) {
				if info.Err != nil {
					return fmt.Errorf("list %s/%s: %w", bucket, sendPrefix, info.Err)
				}
				names = append(names, info.Key)
			}
			if len(names) == 0 {
				return fmt.Errorf("no batch objects under %s/%s", bucket, sendPrefix)
			}
		}

		for _, name := range names {
			results, err := service.SendBucketObject(ctx, client, bucket, name)
			if err != nil {
				return fmt.Errorf("batch %s: %w", name, err)
			}
			logg.Info("Batch committed", zap.String("object", name), zap.Int("objects", len(results)))
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendBucket, "bucket", "", "bucket holding the batch (defaults to storage.bucket)")
	sendCmd.Flags().StringVar(&sendObject, "object", "", "object name of one batch in the bucket")
	sendCmd.Flags().StringVar(&sendPrefix, "prefix", "", "apply every batch object under this prefix")
	RootCmd.AddCommand(sendCmd)
}
