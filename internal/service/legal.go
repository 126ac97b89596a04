package service

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/templui/dailybible/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

type LegalPage struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
}

// LegalService serves the privacy policy and terms from markdown files.
type LegalService struct {
	fsys   fs.FS
	reload bool
	parser     *markdown.Parser

	mu    sync.RWMutex
	pages map[string]*LegalPage
}

const legalDir = "legal"

// NewLegalService reads pages from legal/ in fsys. With reload set,
// files are re-read on every request (development).
func NewLegalService(fsys fs.FS, reload bool) *LegalService {
	return &LegalService{
		fsys:   fsys,
		reload: reload,
		parser: markdown.NewParser(),
		pages:  make(map[string]*LegalPage),
	}
}

func (s *LegalService) LoadPages() error {
	files, err := fs.ReadDir(s.fsys, legalDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read legal directory: %w", err)
	}

	pages := make(map[string]*LegalPage)
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		page, err := s.loadPage(slug)
		if err != nil {
			return fmt.Errorf("failed to load page %s: %w", slug, err)
		}
		pages[slug] = page
	}

	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()
	return nil
}

func (s *LegalService) Page(slug string) (*LegalPage, error) {
	if s.reload {
		err := s.LoadPages()
		if err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	page, ok := s.pages[slug]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}

	return page, nil
}

func (s *LegalService) loadPage(slug string) (*LegalPage, error) {
	filePath := path.Join(legalDir, slug+".md")
	content, err := fs.ReadFile(s.fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	lastUpdated := formatDate(meta["lastUpdated"])
	if lastUpdated == "" {
		info, err := fs.Stat(s.fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to get file info: %w", err)
		}
		// Embedded files have no modification time
		if !info.ModTime().IsZero() {
			lastUpdated = info.ModTime().Format("January 2, 2006")
		}
	}

	return &LegalPage{
		Title:       title,
		Slug:        slug,
		Content:     string(html),
		LastUpdated: lastUpdated,
	}, nil
}

func formatDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("January 2, 2006")
	case string:
		for _, layout := range []string{"2006-01-02", "January 2, 2006", time.RFC3339} {
			t, err := time.Parse(layout, v)
			if err == nil {
				return t.Format("January 2, 2006")
			}
		}
		return v
	default:
		return ""
	}
}
