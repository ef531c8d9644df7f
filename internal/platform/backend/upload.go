package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"hrportal/internal/domain/uploads"
)

var fileNameEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload streams file to the backend as multipart field "file" without buffering it.
func (c *Client) Upload(ctx context.Context, token string, kind uploads.Kind, file uploads.File) error {
	var path string
	switch kind {
	case uploads.KindProfilePicture:
		path = "/upload/profile-picture"
	case uploads.KindResume:
		path = "/upload/resume"
	default:
		return fmt.Errorf("upload: unknown kind %q", kind)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`,
			fileNameEscaper.Replace(filepath.Base(file.Name))))
		header.Set("Content-Type", file.ContentType)
		part, err := mw.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, file.Content)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	_, err := c.do(ctx, call{
		op:          "upload." + string(kind),
		method:      http.MethodPost,
		path:        path,
		token:       token,
		body:        pr,
		contentType: mw.FormDataContentType(),
	})
	// Unblock the writer if the request ended before the body was consumed.
	pr.CloseWithError(io.ErrClosedPipe)
	return err
}
