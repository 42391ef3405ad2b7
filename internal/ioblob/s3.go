package ioblob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds parameters of an S3 or MinIO bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

type s3Store struct {
	client *s3.Client
	bucket string
}

// NewS3 creates a store backed by a single S3 bucket. Without static
// keys the default AWS credential chain is used.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, DriverError(string(DriverS3), errors.New("bucket is required"))
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, DriverError(string(DriverS3), err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &s3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3Store) Driver() Driver { return DriverS3 }

// Put emulates create-only semantics with a Head request.
func (s *s3Store) Put(ctx context.Context, key string, data []byte) (Info, error) {
	if _, err := sanitizeKey(key); err != nil {
		return Info{}, err
	}
	_, ok, err := s.Head(ctx, key)
	if err != nil {
		return Info{}, err
	}
	if ok {
		return Info{}, ErrExists
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Info{}, WriteError(key, err)
	}
	return Info{Key: key, Size: int64(len(data))}, nil
}

func (s *s3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, ReadError(key, err)
	}
	defer out.Body.Close()
	res, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ReadError(key, err)
	}
	return res, nil
}

func (s *s3Store) Head(ctx context.Context, key string) (Info, bool, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, ReadError(key, err)
	}
	return Info{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, true, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Head(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, WriteError(key, err)
	}
	return true, nil
}

func (s *s3Store) List(ctx context.Context, prefix string) ([]Info, error) {
	var res []Info
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, ReadError(prefix, err)
		}
		for _, obj := range page.Contents {
			res = append(res, Info{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var re interface{ HTTPStatusCode() int }
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
