package publish_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/publish"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	fail    error
}

func (b *fakeBucket) PutObject(
	_ context.Context,
	in *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(data)
	b.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func newBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]string{}, types: map[string]string{}}
}

func factory(b *fakeBucket) publish.ClientFactory {
	return func(context.Context, domain.PublishConfig) (publish.ObjectPutter, error) {
		return b, nil
	}
}

func artifacts(t *testing.T) (string, []string) {
	t.Helper()
	root := t.TempDir()
	files := []string{
		filepath.Join(root, "linux-x64", "ffprobe"),
		filepath.Join(root, "linux-x64", "ffprobe.b3"),
	}
	for _, f := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(f), 0o750))
		require.NoError(t, os.WriteFile(f, []byte(filepath.Base(f)), 0o600))
	}
	return root, files
}

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Times(2)

	root, files := artifacts(t)
	bucket := newBucket()
	cfg := domain.PublishConfig{Bucket: "releases", Prefix: "/ffprobe/v6/"}

	keys, err := publish.NewPublisherWithFactory(log, factory(bucket)).Publish(context.Background(), cfg, root, files)
	require.NoError(t, err)

	assert.Equal(t, []string{"ffprobe/v6/linux-x64/ffprobe", "ffprobe/v6/linux-x64/ffprobe.b3"}, keys)
	assert.Equal(t, "ffprobe", bucket.objects["releases/ffprobe/v6/linux-x64/ffprobe"])
	assert.Equal(t, "application/octet-stream", bucket.types["ffprobe/v6/linux-x64/ffprobe"])
	assert.Equal(t, "text/plain; charset=utf-8", bucket.types["ffprobe/v6/linux-x64/ffprobe.b3"])
}

func TestPublish_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	p := publish.NewPublisherWithFactory(log, factory(newBucket()))
	root, files := artifacts(t)

	_, err := p.Publish(context.Background(), domain.PublishConfig{}, root, files)
	require.ErrorIs(t, err, domain.ErrConfigInvalid)

	_, err = p.Publish(context.Background(), domain.PublishConfig{Bucket: "b"}, root, nil)
	require.ErrorIs(t, err, domain.ErrNothingToPublish)

	_, err = p.Publish(context.Background(), domain.PublishConfig{Bucket: "b"}, filepath.Join(root, "linux-x64"),
		[]string{filepath.Join(root, "other")})
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestPublish_UploadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	root, files := artifacts(t)
	bucket := newBucket()
	bucket.fail = errors.New("access denied")

	keys, err := publish.NewPublisherWithFactory(log, factory(bucket)).
		Publish(context.Background(), domain.PublishConfig{Bucket: "b"}, root, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Empty(t, keys)
}
