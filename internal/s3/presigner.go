package s3

import (
	"context"
	"net/url"
	"time"

	"lodging-service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadURLLifetime = 15 * time.Minute

func newClient(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// ImagePresigner hands out presigned PUT URLs so clients upload image bytes straight to the bucket.
type ImagePresigner struct {
	client     *s3.PresignClient
	bucketName string
	expires    time.Duration
}

func NewImagePresigner(ctx context.Context, cfg config.S3Config) (*ImagePresigner, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &ImagePresigner{
		client:     s3.NewPresignClient(client),
		bucketName: cfg.BucketName,
		expires:    uploadURLLifetime,
	}, nil
}

// PresignUpload returns the signed upload URL and the unsigned URL the stored object is served from.
func (p *ImagePresigner) PresignUpload(ctx context.Context, objectKey, contentType string) (string, string, error) {
	request, err := p.client.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:      aws.String(p.bucketName),
			Key:         aws.String(objectKey),
			ContentType: aws.String(contentType),
		},
		func(opts *s3.PresignOptions) {
			opts.Expires = p.expires
		},
	)
	if err != nil {
		return "", "", err
	}

	objectURL, err := stripQuery(request.URL)
	if err != nil {
		return "", "", err
	}

	return request.URL, objectURL, nil
}

func stripQuery(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
