package backup

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/jobs"
	"git.blockward.net/bw/blockward/src/oops"
	"git.blockward.net/bw/blockward/src/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/jpillora/backoff"
)

// Offsite backup of the image content roots. Every file in every root gets
// mirrored into the Spaces bucket under "<root basename>/<filename>"; files
// already present with the same size are skipped. Backups never delete from
// the bucket, so a bad purge can be recovered from the mirror.

var client *s3.Client

func init() {
	spaces := config.Config.Spaces
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(spaces.Key, spaces.Secret, ""),
		),
		awsconfig.WithRegion(spaces.Region),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: spaces.Endpoint,
			}, nil
		})),
	)
	if err != nil {
		panic(err)
	}
	client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

const backupInterval = 24 * time.Hour

func PeriodicallyBackUp() *jobs.Job {
	job := jobs.New("media backup")

	if !config.Config.Spaces.Enabled {
		return job.Finish()
	}

	go func() {
		defer job.Finish()
		t := time.NewTicker(backupInterval)
		defer t.Stop()
		for {
			err := func() (err error) {
				defer utils.RecoverPanicAsError(&err)
				return BackUpAllRoots(job.Ctx)
			}()
			if err != nil {
				job.Logger.Error().Err(err).Msg("Failed to back up media roots")
			}
			select {
			case <-job.Canceled():
				return
			case <-t.C:
			}
		}
	}()

	return job
}

func BackUpAllRoots(ctx context.Context) error {
	for _, root := range config.Config.Media.AllRoots() {
		err := backUpRoot(ctx, root)
		if err != nil {
			return err
		}
	}
	return nil
}

func backUpRoot(ctx context.Context, root string) error {
	inventory, err := images.Inventory(root)
	if err != nil {
		return err
	}

	prefix := filepath.Base(root)
	for _, file := range inventory {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		key := prefix + "/" + file.Name
		if uploadedSize(ctx, key) == file.Size {
			continue
		}

		content, err := os.ReadFile(filepath.Join(root, file.Name))
		if err != nil {
			return oops.New(err, "failed to read %s for backup", file.Name)
		}
		err = uploadWithRetry(ctx, key, content)
		if err != nil {
			return oops.New(err, "failed to back up %s", file.Name)
		}
	}
	return nil
}

// Returns -1 when the object is missing, so a zero-byte local file still
// gets mirrored.
func uploadedSize(ctx context.Context, key string) int64 {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &config.Config.Spaces.Bucket,
		Key:    &key,
	})
	if err != nil || head.ContentLength == 0 {
		return -1
	}
	return head.ContentLength
}

func uploadWithRetry(ctx context.Context, key string, content []byte) error {
	contentType := http.DetectContentType(content)

	upload := func() error {
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &config.Config.Spaces.Bucket,
			Key:         &key,
			Body:        bytes.NewReader(content),
			ContentType: &contentType,
		})
		return err
	}

	b := backoff.Backoff{
		Min: time.Second,
		Max: time.Minute,
	}
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		err = upload()
		if err == nil {
			return nil
		}

		var apiError smithy.APIError
		if errors.As(err, &apiError) && apiError.ErrorCode() == "NoSuchBucket" {
			_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
				Bucket: &config.Config.Spaces.Bucket,
			})
			if err != nil {
				return oops.New(err, "failed to create backup bucket")
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
	return err
}
