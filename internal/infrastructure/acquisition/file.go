package acquisition

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
)

// FileSource отдаёт один и тот же кадр из файла на каждый Read.
// Удобен для отладки конвейера на эталонных снимках.
type FileSource struct {
	id     string
	path   string
	width  int
	height int
	img    *entity.Image
	log    *slog.Logger
}

// NewFileSource создаёт источник из файла изображения. Ненулевые width и
// height задают принудительный ресайз кадра.
func NewFileSource(id, path string, width, height int) *FileSource {
	return &FileSource{
		id:     id,
		path:   path,
		width:  width,
		height: height,
		log:    slog.Default().With("component", "source", "source", id),
	}
}

// Open декодирует файл. Формат определяется расширением.
func (s *FileSource) Open() error {
	decoded, err := imaging.Open(s.path)
	if err != nil {
		return fmt.Errorf("open image %s: %w", s.path, err)
	}
	if s.width > 0 && s.height > 0 {
		decoded = imaging.Resize(decoded, s.width, s.height, imaging.Lanczos)
	}
	s.img = entity.FromImage(decoded)
	s.log.Info("file source opened", "path", s.path,
		"width", s.img.Width, "height", s.img.Height)
	return nil
}

// Read возвращает копию кадра, чтобы стадии конвейера не портили оригинал.
func (s *FileSource) Read() (*entity.Image, error) {
	if s.img == nil {
		return nil, fmt.Errorf("file source %s is not opened", s.id)
	}
	return s.img.Clone(), nil
}

// Close освобождает кадр.
func (s *FileSource) Close() {
	s.img = nil
}

// DirectorySource по очереди отдаёт изображения из каталога в
// лексикографическом порядке; с loop=true список зацикливается.
type DirectorySource struct {
	id    string
	dir   string
	loop  bool
	files []string
	next  int
	log   *slog.Logger
}

// NewDirectorySource создаёт источник из каталога с изображениями.
func NewDirectorySource(id, dir string, loop bool) *DirectorySource {
	return &DirectorySource{
		id:   id,
		dir:  dir,
		loop: loop,
		log:  slog.Default().With("component", "source", "source", id),
	}
}

// Open собирает отсортированный список поддерживаемых файлов.
func (s *DirectorySource) Open() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", s.dir, err)
	}
	s.files = s.files[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff":
			s.files = append(s.files, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(s.files)
	if len(s.files) == 0 {
		return fmt.Errorf("directory %s contains no images", s.dir)
	}
	s.next = 0
	s.log.Info("directory source opened", "dir", s.dir, "files", len(s.files))
	return nil
}

// Read отдаёт следующий кадр. Битый файл пропускается с предупреждением,
// исчерпание списка без loop — ошибка.
func (s *DirectorySource) Read() (*entity.Image, error) {
	for {
		if s.next >= len(s.files) {
			if !s.loop {
				return nil, fmt.Errorf("directory source %s is exhausted", s.id)
			}
			s.next = 0
		}
		path := s.files[s.next]
		s.next++

		decoded, err := imaging.Open(path)
		if err != nil {
			s.log.Warn("skipping unreadable image", "path", path, "error", err)
			continue
		}
		return entity.FromImage(decoded), nil
	}
}

// Close сбрасывает позицию чтения.
func (s *DirectorySource) Close() {
	s.files = nil
	s.next = 0
}

// Проверка реализации интерфейсов
var (
	_ port.ImageSource = (*FileSource)(nil)
	_ port.ImageSource = (*DirectorySource)(nil)
)
