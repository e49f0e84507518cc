package routesource

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-go/routesync/pkg/routetable"
)

// DefaultRegion is used when neither a region nor AWS_REGION is set.
const DefaultRegion = "us-east-1"

// GetObjectAPI is the part of *s3.Client that S3Source uses.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a route table object from S3. The key's extension picks
// the format.
type S3Source struct {
	client GetObjectAPI
	bucket string
	key    string
}

// NewS3Source creates a source for bucket/key.
//
// Example usage:
//
//	client := routesource.NewS3Client("eu-west-1")
//	src := routesource.NewS3Source(client, "my-bucket", "prod/routes.json")
func NewS3Source(client GetObjectAPI, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) (routetable.Table, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", s, err)
	}
	defer out.Body.Close()

	table, err := routetable.Decode(out.Body, routetable.FormatFromPath(s.key))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *S3Source) String() string { return "s3://" + s.bucket + "/" + s.key }

// NewS3Client creates an S3 client using credentials from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.
// Without them, requests are sent anonymously, which works for public
// buckets.
func NewS3Client(region string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = DefaultRegion
	}

	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if id := os.Getenv("AWS_ACCESS_KEY_ID"); id != "" {
		creds = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     id,
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}, nil
		}))
	}

	return s3.New(s3.Options{
		Region:      region,
		Credentials: creds,
	})
}
