package s3

import (
	"context"
	"fmt"

	"lodging-service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type objectAPI interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// ImageStore removes stored image objects once their owning spot or review is gone.
type ImageStore struct {
	client     objectAPI
	bucketName string
}

func NewImageStore(ctx context.Context, cfg config.S3Config) (*ImageStore, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &ImageStore{client: client, bucketName: cfg.BucketName}, nil
}

// DeletePrefix deletes every object under prefix and reports how many were removed.
func (s *ImageStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})

	deleted := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("listing %s: %w", prefix, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]types.ObjectIdentifier, len(page.Contents))
		for i, obj := range page.Contents {
			ids[i] = types.ObjectIdentifier{Key: obj.Key}
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucketName),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, fmt.Errorf("deleting objects under %s: %w", prefix, err)
		}
		if len(out.Errors) > 0 {
			return deleted + len(ids) - len(out.Errors), fmt.Errorf("deleting %s: %s", aws.ToString(out.Errors[0].Key), aws.ToString(out.Errors[0].Message))
		}
		deleted += len(ids)
	}

	return deleted, nil
}
