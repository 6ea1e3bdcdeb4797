package formbuilder

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
)

// UploadError is the transport status of one submitted file. The codes
// follow the conventional upload error table, so messages configured by
// number keep working.
type UploadError int

const (
	UploadOK        UploadError = 0
	UploadIniSize   UploadError = 1 // exceeds the server-wide size limit
	UploadFormSize  UploadError = 2 // exceeds the size limit declared by the form
	UploadPartial   UploadError = 3
	UploadNoFile    UploadError = 4
	UploadNoTmpDir  UploadError = 6
	UploadCantWrite UploadError = 7
	UploadExtension UploadError = 8 // blocked by extension or type
)

var uploadErrorText = map[UploadError]string{
	UploadIniSize:   "The uploaded file exceeds the maximum file size.",
	UploadFormSize:  "The uploaded file exceeds the maximum file size for this form.",
	UploadPartial:   "The uploaded file was only partially uploaded.",
	UploadNoFile:    "No file was uploaded.",
	UploadNoTmpDir:  "Missing a temporary folder.",
	UploadCantWrite: "Failed to write file to disk.",
	UploadExtension: "The file type is not allowed.",
}

func (e UploadError) String() string {
	if msg, ok := uploadErrorText[e]; ok {
		return msg
	}
	if e == UploadOK {
		return ""
	}
	return "The file could not be uploaded."
}

// Upload describes one submitted file. It is the value of a file input.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	TempPath    string // set when the file content lives on disk
	Error       UploadError

	header *multipart.FileHeader
}

// NewUpload wraps a multipart file header. An empty file name maps to
// UploadNoFile.
func NewUpload(fh *multipart.FileHeader) *Upload {
	u := &Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		header:      fh,
	}
	if fh.Filename == "" {
		u.Error = UploadNoFile
	}
	return u
}

// Open returns the content of the uploaded file.
func (u *Upload) Open() (io.ReadCloser, error) {
	if u.Error != UploadOK {
		return nil, errors.New("formbuilder: upload failed: " + u.Error.String())
	}
	if u.header != nil {
		return u.header.Open()
	}
	if u.TempPath != "" {
		return os.Open(u.TempPath)
	}
	return nil, errors.New("formbuilder: upload has no content")
}

// UploadMover stores an uploaded file at its final destination. dest may be
// a path or a key; existing files that conflict with it are removed first.
// It returns the final location.
//
// Implementations live in the upload package (disk and S3). Configure one
// with Config.WithUploadMover.
type UploadMover interface {
	Move(ctx context.Context, u *Upload, dest string) (string, error)
}
