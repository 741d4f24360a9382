//go:build containers

package localstack_test

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/companion/pkg/services/localstack"
)

func TestLocalstackLifecycle(t *testing.T) {
	svc := localstack.New(localstack.Config{ServiceName: "s3-test"})
	require.Equal(t, "s3-test", svc.Name())
	require.Nil(t, svc.Client(), "client should be nil before Start")

	svc.Start()
	defer svc.Stop()

	client := svc.Client()
	require.NotNil(t, client)
	require.NotEmpty(t, svc.Endpoint())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bucket := "companion-test-bucket"
	_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	require.NoError(t, err)

	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	require.NoError(t, err)

	found := false
	for _, b := range out.Buckets {
		if aws.ToString(b.Name) == bucket {
			found = true
		}
	}
	require.True(t, found, "created bucket not listed")
}

func TestLocalstackStopTolerance(t *testing.T) {
	svc := localstack.New(localstack.Config{ServiceName: "s3-stop"})

	svc.Stop() // no-op before Start

	svc.Start()
	svc.Stop()
	require.Nil(t, svc.Client())
	svc.Stop()
}
