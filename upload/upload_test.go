package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"

	"github.com/pthm/formbuilder"
)

func TestDestination(t *testing.T) {
	tests := []struct {
		dest, filename string
		isDir          bool
		want           string
	}{
		{"avatars/", "me.png", true, "avatars/me.png"},
		{"avatars", "me.png", true, "avatars/me.png"},
		{"avatars/42.*", "me.png", false, "avatars/42.png"},
		{"avatars/42.jpg", "me.png", false, "avatars/42.png"},
		{"avatars/42", "me.png", false, "avatars/42.png"},
		{"docs/cv", `C:\Users\me\cv.pdf`, false, "docs/cv.pdf"},
		{"docs/", `C:\Users\me\cv.pdf`, true, "docs/cv.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			if got := destination(tt.dest, tt.filename, tt.isDir); got != tt.want {
				t.Errorf("destination(%q, %q) = %q, want %q", tt.dest, tt.filename, got, tt.want)
			}
		})
	}
}

func tempUpload(t *testing.T, name, content string) *formbuilder.Upload {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), "upload-tmp")
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return &formbuilder.Upload{Filename: name, ContentType: "image/png", Size: int64(len(content)), TempPath: tmp}
}

func TestDiskMoverReplacesConflicts(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "avatars"), 0o755); err != nil {
		t.Fatal(err)
	}
	old := filepath.Join(root, "avatars", "42.jpg")
	other := filepath.Join(root, "avatars", "43.jpg")
	for _, f := range []string{old, other} {
		if err := os.WriteFile(f, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	m := NewDisk(root, nil)
	got, err := m.Move(context.Background(), tempUpload(t, "me.png", "png"), "avatars/42.*")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if want := filepath.Join(root, "avatars", "42.png"); got != want {
		t.Errorf("Move = %q, want %q", got, want)
	}
	if _, err := os.Stat(old); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("conflicting file %s was not removed", old)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("unrelated file was touched: %v", err)
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "png" {
		t.Errorf("stored content = %q, %v", data, err)
	}
}

func TestDiskMoverDirectory(t *testing.T) {
	root := t.TempDir()
	m := NewDisk(root, nil)

	got, err := m.Move(context.Background(), tempUpload(t, "report.pdf", "pdf"), "docs/2024/")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if want := filepath.Join(root, "docs", "2024", "report.pdf"); got != want {
		t.Errorf("Move = %q, want %q", got, want)
	}
}

func TestDiskMoverCopiesMultipartContent(t *testing.T) {
	r := formbuilder.NewTestRequest("POST", "/").
		WithFile("cv", "cv.txt", "text/plain", []byte("hello")).
		Build()
	if err := r.ParseMultipartForm(formbuilder.DefaultMaxMemory); err != nil {
		t.Fatal(err)
	}
	u := formbuilder.NewUpload(r.MultipartForm.File["cv"][0])

	root := t.TempDir()
	got, err := NewDisk(root, nil).Move(context.Background(), u, "cv")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "hello" {
		t.Errorf("stored content = %q, %v", data, err)
	}
}

func TestDiskMoverRejectsFailedUpload(t *testing.T) {
	u := &formbuilder.Upload{Error: formbuilder.UploadNoFile}
	_, err := NewDisk(t.TempDir(), nil).Move(context.Background(), u, "x")
	if !formbuilder.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

type fakeS3 struct {
	objects map[string][]byte
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func TestS3Mover(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"uploads/avatars/42.jpg": []byte("old"),
		"uploads/avatars/43.jpg": []byte("other"),
	}}
	m := NewS3(client, "bucket", "uploads/", nil)

	key, err := m.Move(context.Background(), tempUpload(t, "me.png", "png"), "avatars/42.*")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if key != "uploads/avatars/42.png" {
		t.Errorf("key = %q", key)
	}
	if diff := cmp.Diff([]string{"uploads/avatars/42.jpg"}, client.deleted); diff != "" {
		t.Errorf("deleted keys mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]byte{
		"uploads/avatars/42.png": []byte("png"),
		"uploads/avatars/43.jpg": []byte("other"),
	}
	if diff := cmp.Diff(want, client.objects); diff != "" {
		t.Errorf("objects mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveUploadThroughConfig(t *testing.T) {
	root := t.TempDir()
	cfg := formbuilder.DefaultConfig().WithUploadMover(NewDisk(root, nil))
	f := formbuilder.NewFactory(cfg)
	form := f.Form(nil, nil)
	in := form.Begin("file", formbuilder.Options{"name": "avatar"}, nil).(*formbuilder.Input)
	in.SetValue(tempUpload(t, "me.png", "png"))

	got, err := in.MoveUpload(context.Background(), "avatars/7")
	if err != nil {
		t.Fatalf("MoveUpload: %v", err)
	}
	if want := filepath.Join(root, "avatars", "7.png"); got != want {
		t.Errorf("MoveUpload = %q, want %q", got, want)
	}
}
