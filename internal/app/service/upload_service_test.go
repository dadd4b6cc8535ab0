package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	saved map[string][]byte
	err   error
}

func (f *fakeStorage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	f.saved[name] = buf.Bytes()
	return nil
}

func (f *fakeStorage) URL(name string) string {
	return "/static/" + name
}

func TestUploadService_UploadImage(t *testing.T) {
	store := &fakeStorage{saved: make(map[string][]byte)}
	svc := NewUploadService(store, 10, []string{"jpg", ".PNG", " gif "})
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		body     string
		wantErr  error
		wantExt  string
	}{
		{name: "Allowed png", filename: "photo.png", body: "png", wantExt: ".png"},
		{name: "Upper case extension", filename: "PHOTO.JPG", body: "jpg", wantExt: ".jpg"},
		{name: "Padded config entry", filename: "a.gif", body: "gif", wantExt: ".gif"},
		{name: "Disallowed type", filename: "script.exe", body: "x", wantErr: ErrInvalidFileType},
		{name: "No extension", filename: "photo", body: "x", wantErr: ErrInvalidFileType},
		{name: "Too large", filename: "big.png", body: "01234567890", wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.UploadImage(ctx, tt.filename, "image/png", int64(len(tt.body)), strings.NewReader(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(result.Filename, tt.wantExt))
			assert.Len(t, strings.TrimSuffix(result.Filename, tt.wantExt), 32)
			assert.Equal(t, "/static/"+result.Filename, result.URL)
			assert.Equal(t, int64(len(tt.body)), result.Size)
			assert.Equal(t, tt.body, string(store.saved[result.Filename]))
		})
	}
}

func TestUploadService_StorageFailure(t *testing.T) {
	store := &fakeStorage{saved: make(map[string][]byte), err: errors.New("disk full")}
	svc := NewUploadService(store, 0, []string{"png"})

	_, err := svc.UploadImage(context.Background(), "a.png", "image/png", 3, strings.NewReader("abc"))
	assert.EqualError(t, err, "disk full")
}
