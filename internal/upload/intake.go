package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxFileSize is the per-file ceiling applied when a Policy sets none.
const DefaultMaxFileSize int64 = 5 << 20

// InvalidFileAction decides what happens to a file that fails a type check.
type InvalidFileAction int

const (
	// RejectInvalid fails the whole request.
	RejectInvalid InvalidFileAction = iota
	// SkipInvalid drops the offending file and keeps the rest.
	SkipInvalid
)

// AcceptFunc reports whether a submitted part may be staged.
type AcceptFunc func(fh *multipart.FileHeader) bool

// AcceptAnyImage admits every part declared as image/*.
func AcceptAnyImage(fh *multipart.FileHeader) bool {
	return strings.HasPrefix(fh.Header.Get("Content-Type"), "image/")
}

var imageExtensions = regexp.MustCompile(`jpeg|jpg|png|webp`)

// AcceptImageExtensions admits jpeg, jpg, png and webp by both file extension
// and declared type.
func AcceptImageExtensions(fh *multipart.FileHeader) bool {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	return imageExtensions.MatchString(ext) && imageExtensions.MatchString(fh.Header.Get("Content-Type"))
}

// Policy describes one upload route's form field and constraints.
type Policy struct {
	Field       string
	MaxFiles    int
	MaxFileSize int64
	Accept      AcceptFunc
	OnInvalid   InvalidFileAction
	SubFolder   string // staging directory and remote sub-folder, e.g. "team"
	Prefix      string // staged file name prefix; defaults to Field
}

// StagedFile is an uploaded file written to local staging storage.
type StagedFile struct {
	Path         string
	OriginalName string
	MimeType     string
	Size         int64
}

// Remove deletes the staged copy. A file that is already gone is not an error.
func (f StagedFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Intake writes multipart file parts into per-category staging directories.
type Intake struct {
	root string
	now  func() time.Time
}

func NewIntake(root string) *Intake {
	return &Intake{root: root, now: time.Now}
}

// Receive stages the parts of form submitted under p.Field. On error nothing
// stays on disk.
func (in *Intake) Receive(form *multipart.Form, p Policy) ([]StagedFile, error) {
	if form == nil {
		return nil, nil
	}

	headers := form.File[p.Field]
	if len(headers) == 0 {
		return nil, nil
	}

	if p.MaxFiles > 0 && len(headers) > p.MaxFiles {
		return nil, ErrTooManyFiles
	}

	maxSize := p.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	dir := filepath.Join(in.root, p.SubFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	staged := make([]StagedFile, 0, len(headers))

	for _, fh := range headers {
		if fh.Size > maxSize {
			Discard(staged)
			return nil, ErrFileTooLarge
		}

		if p.Accept != nil && !p.Accept(fh) {
			if p.OnInvalid == SkipInvalid {
				continue
			}
			Discard(staged)
			return nil, ErrUnsupportedType
		}

		file, err := in.stage(dir, p, fh)
		if err != nil {
			Discard(staged)
			return nil, err
		}

		staged = append(staged, file)
	}

	return staged, nil
}

func (in *Intake) stage(dir string, p Policy, fh *multipart.FileHeader) (StagedFile, error) {
	prefix := p.Prefix
	if prefix == "" {
		prefix = p.Field
	}

	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	name := fmt.Sprintf("%s-%d-%s%s", prefix, in.now().UnixMilli(), suffix, strings.ToLower(filepath.Ext(fh.Filename)))
	dst := filepath.Join(dir, name)

	src, err := fh.Open()
	if err != nil {
		return StagedFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return StagedFile{}, fmt.Errorf("create staged file: %w", err)
	}

	n, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return StagedFile{}, fmt.Errorf("write staged file: %w", err)
	}

	return StagedFile{
		Path:         dst,
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         n,
	}, nil
}

// Discard removes every staged file.
func Discard(files []StagedFile) {
	for _, f := range files {
		_ = f.Remove()
	}
}
