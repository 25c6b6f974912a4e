package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyendpoints "github.com/aws/smithy-go/endpoints"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PublicURLBase   string // Optional override for public object URLs
}

// Backend is an S3-compatible implementation of the artifactcatalog.BlobStore
// interface. The bucket is expected to allow public reads; Upload returns the
// object's public URL.
type Backend struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	config   Config
}

type resolverV2 struct {
	s3Endpoint string
	s3Region   string
}

// Reference: https://aws.github.io/aws-sdk-go-v2/docs/configuring-sdk/endpoints/#v2-endpointresolverv2--baseendpoint
func (r *resolverV2) ResolveEndpoint(ctx context.Context, params s3.EndpointParameters) (smithyendpoints.Endpoint, error) {
	if params.Region != nil && *params.Region == r.s3Region {
		base, err := url.Parse(r.s3Endpoint)
		if err != nil {
			return smithyendpoints.Endpoint{}, err
		}
		u := base.JoinPath(*params.Bucket)
		return smithyendpoints.Endpoint{
			URI: *u,
		}, nil
	}

	return s3.NewDefaultEndpointResolverV2().ResolveEndpoint(ctx, params)
}

// New creates a new S3-compatible storage backend
func New(config Config) (artifactcatalog.BlobStore, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.EndpointResolverV2 = &resolverV2{
				s3Endpoint: config.Endpoint,
				s3Region:   config.Region,
			}
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &Backend{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   config.Bucket,
		config:   config,
	}, nil
}

// Upload stores the object and returns its public URL
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(objectKey),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return b.publicURL(objectKey), nil
}

// Download retrieves the object directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %w", err)
	}

	return result.Body, nil
}

// Delete removes the object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (b *Backend) publicURL(objectKey string) string {
	if b.config.PublicURLBase != "" {
		return strings.TrimRight(b.config.PublicURLBase, "/") + "/" + objectKey
	}
	if b.config.Endpoint != "" {
		return strings.TrimRight(b.config.Endpoint, "/") + "/" + b.bucket + "/" + objectKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.config.Region, objectKey)
}
