package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/projects"
)

const (
	DefaultFolderName = "portfolio-backup"
	exportPageSize    = 100
)

// Remote is where backup files end up.
type Remote interface {
	EnsureFolder(ctx context.Context, name string) (string, error)
	FileNames(ctx context.Context, folderID string) (map[string]bool, error)
	Upload(ctx context.Context, folderID, name, mimeType string, content io.Reader) error
}

type uploadsStorage interface {
	List() ([]string, error)
	Path(name string) (string, error)
}

type postsLister interface {
	List(ctx context.Context, params blog.ListParams) ([]blog.Post, int64, error)
}

type projectsLister interface {
	List(ctx context.Context, params projects.ListParams) ([]projects.Project, error)
}

// ContentExport is the json document holding all posts and projects.
type ContentExport struct {
	CreatedAt time.Time          `json:"created_at"`
	Posts     []blog.Post        `json:"posts"`
	Projects  []projects.Project `json:"projects"`
}

type Result struct {
	UploadsCopied  int
	UploadsSkipped int
	ExportName     string
}

type Service struct {
	remote     Remote
	folderName string
	storage    uploadsStorage
	posts      postsLister
	projects   projectsLister
	now        func() time.Time
}

func NewService(
	remote Remote,
	folderName string,
	storage uploadsStorage,
	posts postsLister,
	projects projectsLister,
) *Service {
	if folderName == "" {
		folderName = DefaultFolderName
	}
	return &Service{
		remote:     remote,
		folderName: folderName,
		storage:    storage,
		posts:      posts,
		projects:   projects,
		now:        time.Now,
	}
}

// Run copies upload files missing from the remote folder and adds a fresh
// content export. Upload files are immutable, so existing names are skipped.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	folderID, err := s.remote.EnsureFolder(ctx, s.folderName)
	if err != nil {
		return nil, fmt.Errorf("ensure backup folder: %w", err)
	}
	existing, err := s.remote.FileNames(ctx, folderID)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if s.storage != nil {
		names, err := s.storage.List()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if existing[name] {
				result.UploadsSkipped++
				continue
			}
			if err := s.copyUpload(ctx, folderID, name); err != nil {
				return result, err
			}
			result.UploadsCopied++
		}
		log.Debugf("backup: %d upload files copied, %d already present", result.UploadsCopied, result.UploadsSkipped)
	}

	export, err := s.export(ctx)
	if err != nil {
		return result, err
	}
	exportJson, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return result, fmt.Errorf("marshal content export: %w", err)
	}

	exportName := ExportFileName(export.CreatedAt)
	if existing[exportName] {
		exportName = fmt.Sprintf("content-%s.json", export.CreatedAt.Format("2006-01-02T150405"))
	}
	if err := s.remote.Upload(ctx, folderID, exportName, "application/json", bytes.NewReader(exportJson)); err != nil {
		return result, err
	}
	result.ExportName = exportName

	return result, nil
}

func ExportFileName(t time.Time) string {
	return fmt.Sprintf("content-%s.json", t.Format("2006-01-02"))
}

func (s *Service) copyUpload(ctx context.Context, folderID, name string) error {
	path, err := s.storage.Path(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload %s: %w", name, err)
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return s.remote.Upload(ctx, folderID, name, mimeType, f)
}

func (s *Service) export(ctx context.Context) (*ContentExport, error) {
	export := &ContentExport{
		CreatedAt: s.now().UTC(),
		Posts:     []blog.Post{},
		Projects:  []projects.Project{},
	}

	for page := 1; ; page++ {
		posts, total, err := s.posts.List(ctx, blog.ListParams{Page: page, Size: exportPageSize})
		if err != nil {
			return nil, err
		}
		export.Posts = append(export.Posts, posts...)
		if len(posts) == 0 || int64(len(export.Posts)) >= total {
			break
		}
	}

	allProjects, err := s.projects.List(ctx, projects.ListParams{})
	if err != nil {
		return nil, err
	}
	export.Projects = append(export.Projects, allProjects...)

	return export, nil
}
