package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(b)))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	client := newFakeS3()
	store := newS3Store(client, "drive")
	ctx := context.Background()

	obj, err := store.Put(ctx, "users/u1/a.txt", bytes.NewReader([]byte("hello")), 5)
	require.NoError(t, err)
	assert.Equal(t, Object{Locator: "users/u1/a.txt", Size: 5}, obj)

	rc, err := store.Get(ctx, obj.Locator)
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(got))

	require.NoError(t, store.Delete(ctx, obj.Locator))
	_, err = store.Get(ctx, obj.Locator)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Store_UnknownSizeUsesHead(t *testing.T) {
	store := newS3Store(newFakeS3(), "drive")

	obj, err := store.Put(context.Background(), "k", bytes.NewReader([]byte("abc")), -1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), obj.Size)
}

func TestS3Store_PutErrorWrapped(t *testing.T) {
	client := newFakeS3()
	client.putErr = errors.New("connection refused")
	store := newS3Store(client, "drive")

	_, err := store.Put(context.Background(), "k", bytes.NewReader(nil), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.putErr)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
