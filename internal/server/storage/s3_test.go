package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() S3Options {
	return S3Options{
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "taskboard",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
	}
}

func TestNewS3Presigner_RealSigning(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), testOptions())
	require.NoError(t, err)

	putURL, err := p.PresignPut(context.Background(), "tasks/1/a.txt", "text/plain")
	require.NoError(t, err)

	u, err := url.Parse(putURL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/taskboard/tasks/1/a.txt", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	getURL, err := p.PresignGet(context.Background(), "tasks/1/a.txt")
	require.NoError(t, err)
	assert.Contains(t, getURL, "/taskboard/tasks/1/a.txt")
}

func TestNewS3Presigner_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Presigner(context.Background(), testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load aws config")
}

func TestNewS3Presigner_AppliesEndpoint(t *testing.T) {
	orig := newS3ClientFromConfig
	t.Cleanup(func() { newS3ClientFromConfig = orig })

	var applied s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&applied)
		}
		return orig(cfg, optFns...)
	}

	_, err := NewS3Presigner(context.Background(), testOptions())
	require.NoError(t, err)
	require.NotNil(t, applied.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *applied.BaseEndpoint)
	assert.True(t, applied.UsePathStyle)
}

func TestPresign_Errors(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), testOptions())
	require.NoError(t, err)

	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		presignPutObject = origPut
		presignGetObject = origGet
	})

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put failed")
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get failed")
	}

	_, err = p.PresignPut(context.Background(), "k", "")
	require.ErrorContains(t, err, "put failed")
	_, err = p.PresignGet(context.Background(), "k")
	require.ErrorContains(t, err, "get failed")
}

func TestGetRandomStorageKey(t *testing.T) {
	a := GetRandomStorageKey(42)
	b := GetRandomStorageKey(42)

	assert.True(t, strings.HasPrefix(a, "tasks/42/"))
	assert.NotEqual(t, a, b)
}
