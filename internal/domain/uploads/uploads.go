package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

type Kind string

const (
	KindProfilePicture Kind = "profile-picture"
	KindResume         Kind = "resume"
)

var ErrNotAllowed = errors.New("uploads are not available for this role")

type rule struct {
	control string
	types   map[string]string
	invalid string
	failed  string
}

var rules = map[Kind]rule{
	KindProfilePicture: {
		control: "upload-photo",
		types: map[string]string{
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".png":  "image/png",
		},
		invalid: "Invalid file type. Only JPG, JPEG, PNG allowed",
		failed:  "Failed to upload profile picture",
	},
	KindResume: {
		control: "upload-resume",
		types: map[string]string{
			".pdf":  "application/pdf",
			".doc":  "application/msword",
			".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		invalid: "Invalid file type. Only PDF, DOC, DOCX allowed",
		failed:  "Failed to upload resume",
	},
}

func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := rules[kind]; !ok {
		return "", fmt.Errorf("unknown upload kind %q", raw)
	}
	return kind, nil
}

// File is an upload on its way to the backend. Content is read once, by the backend call.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

type Backend interface {
	Upload(ctx context.Context, token string, kind Kind, file File) error
}

// DashboardScreens hands out the dashboard screen uploads are submitted against.
type DashboardScreens interface {
	Screen(ws *workflow.Workspace, sess session.Session) (*workflow.Screen[dashboard.View], error)
}

type Service struct {
	backend  Backend
	screens  DashboardScreens
	maxBytes int64
}

func NewService(backend Backend, screens DashboardScreens, maxBytes int64) *Service {
	return &Service{backend: backend, screens: screens, maxBytes: maxBytes}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload validates the file locally, forwards it and reloads the dashboard on success.
func (s *Service) Upload(ctx context.Context, ws *workflow.Workspace, sess session.Session, kind Kind, file File) (workflow.State[dashboard.View], error) {
	r, ok := rules[kind]
	if !ok {
		return workflow.State[dashboard.View]{}, fmt.Errorf("unknown upload kind %q", kind)
	}
	layout, err := dashboard.Select(sess.Identity.Role)
	if err != nil {
		return workflow.State[dashboard.View]{}, err
	}
	if !layout.UploadsAllowed {
		return workflow.State[dashboard.View]{}, ErrNotAllowed
	}
	screen, err := s.screens.Screen(ws, sess)
	if err != nil {
		return workflow.State[dashboard.View]{}, err
	}

	return screen.Submit(ctx, workflow.Mutation{
		Control: r.control,
		Validate: func() error {
			return s.Validate(kind, &file)
		},
		Write: func(ctx context.Context) error {
			return s.backend.Upload(ctx, sess.Token, kind, file)
		},
		FailureMessage: r.failed,
	})
}

// Validate checks extension and size and fills in the content type the backend expects.
func (s *Service) Validate(kind Kind, file *File) error {
	r, ok := rules[kind]
	if !ok {
		return workflow.Invalid("Unknown upload")
	}
	if file == nil || file.Content == nil || strings.TrimSpace(file.Name) == "" {
		return workflow.Invalid("Please choose a file")
	}
	contentType, ok := r.types[strings.ToLower(filepath.Ext(file.Name))]
	if !ok {
		return workflow.Invalid(r.invalid)
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return workflow.Invalid(fmt.Sprintf("File is too large. Maximum size is %d KB", s.maxBytes/1024))
	}
	file.ContentType = contentType
	return nil
}
