package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/folio/artifact"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	args := m.Called(aws.ToString(in.Key), aws.ToString(in.ContentType), string(body))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(aws.ToString(in.Prefix), aws.ToString(in.ContinuationToken))
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func (m *mockAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestStore_Get(t *testing.T) {
	api := &mockAPI{}
	api.On("GetObject", "portfolio/resume.pdf").Return(&s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader("%PDF")),
		ContentType: aws.String("application/pdf"),
	}, nil)

	s := NewFromAPI(api, Config{Bucket: "assets", Prefix: "portfolio"})
	a, err := s.Get(context.Background(), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", a.Key)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, "%PDF", string(a.Data))
	api.AssertExpectations(t)
}

func TestStore_GetNotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetObject", "missing").Return(nil, &types.NoSuchKey{})

	_, err := NewFromAPI(api, Config{Bucket: "assets"}).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestStore_GetTooLarge(t *testing.T) {
	api := &mockAPI{}
	api.On("GetObject", "big").Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader("0123456789")),
	}, nil)

	_, err := NewFromAPI(api, Config{Bucket: "assets", MaxObjectBytes: 4}).Get(context.Background(), "big")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestStore_Save(t *testing.T) {
	api := &mockAPI{}
	api.On("PutObject", "p/me.png", "image/png", "png").Return(nil)

	s := NewFromAPI(api, Config{Bucket: "assets", Prefix: "p/"})
	require.NoError(t, s.Save(context.Background(), artifact.Artifact{Key: "me.png", ContentType: "image/png", Data: []byte("png")}))
	api.AssertExpectations(t)

	assert.Error(t, s.Save(context.Background(), artifact.Artifact{}))
}

func TestStore_ListPaginates(t *testing.T) {
	api := &mockAPI{}
	api.On("ListObjectsV2", "p/", "").Return(&s3.ListObjectsV2Output{
		Contents:              []types.Object{{Key: aws.String("p/a.pdf")}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("next"),
	}, nil)
	api.On("ListObjectsV2", "p/", "next").Return(&s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String("p/b.pdf")}},
		IsTruncated: aws.Bool(false),
	}, nil)

	keys, err := NewFromAPI(api, Config{Bucket: "assets", Prefix: "p"}).List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, keys)
}

func TestStore_DeleteError(t *testing.T) {
	api := &mockAPI{}
	api.On("DeleteObject", "x").Return(errors.New("denied"))

	err := NewFromAPI(api, Config{Bucket: "assets"}).Delete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
