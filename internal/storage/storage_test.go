package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256("hello world")
const helloHash = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestUpload_LocalHashesWhileStreaming(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "http://files.test/"})
	require.NoError(t, err)

	f, err := Upload(ctx, s, "credentials/u1", "Diploma.PDF", strings.NewReader("hello world"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, helloHash, f.Hash)
	assert.EqualValues(t, 11, f.Size)
	assert.True(t, strings.HasPrefix(f.Path, "credentials/u1/"))
	assert.True(t, strings.HasSuffix(f.Path, ".pdf"))
	assert.Equal(t, "http://files.test/"+f.Path, f.URL)

	rc, err := s.Get(ctx, f.Path)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello world", string(body))

	require.NoError(t, s.Delete(ctx, f.Path))
	ok, err := s.Exists(ctx, f.Path)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, f.Path))
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"))
	ok, err := s.Exists(context.Background(), "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Get(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHashReader(t *testing.T) {
	h, err := HashReader(strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, helloHash, h)
}

type fakeS3 struct {
	s3iface.S3API
	deleted []string
	missing bool
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, _ *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	if f.missing {
		return nil, awserr.New("NotFound", "not found", nil)
	}
	return &s3.HeadObjectOutput{}, nil
}

type fakeUploader struct {
	body  string
	input *s3manager.UploadInput
	err   error
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3manager.UploadOutput{}, f.err
}

func TestR2Storage_Upload(t *testing.T) {
	client := &fakeS3{}
	up := &fakeUploader{}
	s := newR2Storage(client, up, "creds", "https://cdn.example.com/", true)

	f, err := Upload(context.Background(), s, "credentials", "cert.png", strings.NewReader("hello world"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "hello world", up.body)
	assert.Equal(t, "creds", aws.StringValue(up.input.Bucket))
	assert.Equal(t, s3.ObjectCannedACLPublicRead, aws.StringValue(up.input.ACL))
	assert.Equal(t, helloHash, f.Hash)
	assert.Equal(t, "https://cdn.example.com/"+f.Path, f.URL)

	SafeDelete(context.Background(), s, f.Path)
	assert.Equal(t, []string{f.Path}, client.deleted)
}

func TestR2Storage_UploadError(t *testing.T) {
	s := newR2Storage(&fakeS3{}, &fakeUploader{err: errors.New("denied")}, "b", "https://x", false)

	_, err := Upload(context.Background(), s, "c", "a.pdf", strings.NewReader("x"), "application/pdf")
	assert.ErrorContains(t, err, "denied")
}

func TestR2Storage_ExistsMissing(t *testing.T) {
	s := newR2Storage(&fakeS3{missing: true}, &fakeUploader{}, "b", "https://x", false)

	ok, err := s.Exists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewStorage_Unsupported(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
