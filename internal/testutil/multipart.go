package testutil

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

// Form builds a multipart/form-data body.
type Form struct {
	t   *testing.T
	buf bytes.Buffer
	w   *multipart.Writer
}

func NewForm(t *testing.T) *Form {
	f := &Form{t: t}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *Form) Field(name, value string) *Form {
	f.t.Helper()
	if err := f.w.WriteField(name, value); err != nil {
		f.t.Fatalf("writing field %s: %v", name, err)
	}
	return f
}

// File adds a file part with an explicit declared content type.
func (f *Form) File(field, filename, contentType string, data []byte) *Form {
	f.t.Helper()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.t.Fatalf("creating part: %v", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		f.t.Fatalf("writing part: %v", err)
	}
	return f
}

// Request closes the form and returns a request carrying it.
func (f *Form) Request(method, target string) *http.Request {
	f.t.Helper()

	if err := f.w.Close(); err != nil {
		f.t.Fatalf("closing form: %v", err)
	}

	req := httptest.NewRequest(method, target, &f.buf)
	req.Header.Set("Content-Type", f.w.FormDataContentType())
	return req
}

// Parsed closes the form and parses it the way the HTTP server would.
func (f *Form) Parsed() *multipart.Form {
	f.t.Helper()

	req := f.Request(http.MethodPost, "/")
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		f.t.Fatalf("parsing form: %v", err)
	}
	return req.MultipartForm
}
