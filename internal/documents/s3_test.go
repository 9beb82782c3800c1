package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the object subset the store uses from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	respond := func(status int, body []byte, header http.Header) *http.Response {
		if header == nil {
			header = http.Header{}
		}
		return &http.Response{StatusCode: status, Header: header, Body: io.NopCloser(bytes.NewReader(body)), Request: req}
	}

	switch req.Method {
	case http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, nil, nil), nil
		}
		return respond(http.StatusOK, nil, http.Header{
			"Content-Length": {fmt.Sprint(len(body))},
			"Content-Type":   {f.types[key]},
		}), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return respond(http.StatusOK, nil, nil), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound,
				[]byte(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`),
				http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return respond(http.StatusOK, body, http.Header{"Content-Length": {fmt.Sprint(len(body))}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil, nil), nil
	}
	return respond(http.StatusMethodNotAllowed, nil, nil), nil
}

func newFakeS3Store(t *testing.T) *S3Store {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)

	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.RetryMaxAttempts = 1
	})
	return NewS3StoreWithClient(client, "references")
}

func TestS3StoreRoundTrip(t *testing.T) {
	store := newFakeS3Store(t)
	ctx := context.Background()
	assert.Equal(t, DriverS3, store.Driver())

	info, err := store.Put(ctx, "batches/2/t-list.pdf", bytes.NewReader([]byte("hello")), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)

	_, err = store.Put(ctx, "batches/2/t-list.pdf", bytes.NewReader([]byte("again")), "")
	assert.True(t, errors.Is(err, ErrExists))

	rc, err := store.Get(ctx, "batches/2/t-list.pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(ctx, "batches/2/t-list.pdf"))
	_, err = store.Get(ctx, "batches/2/t-list.pdf")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}
