package ocr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type sourceKind int

const (
	kindPath sourceKind = iota + 1
	kindBytes
	kindStream
	kindOpener
)

// Source is an image reference. Build one with FromPath, FromBytes, FromStream or FromOpener.
type Source struct {
	kind   sourceKind
	path   string
	data   []byte
	stream io.Reader
	open   func() (io.ReadCloser, error)
	ext    string
}

func FromPath(path string) Source {
	return Source{kind: kindPath, path: path, ext: filepath.Ext(path)}
}

func FromBytes(data []byte, ext string) Source {
	return Source{kind: kindBytes, data: data, ext: ext}
}

// FromStream reads r to the end. When r is an io.Seeker its position is restored afterwards.
func FromStream(r io.Reader, ext string) Source {
	return Source{kind: kindStream, stream: r, ext: ext}
}

func FromOpener(open func() (io.ReadCloser, error), ext string) Source {
	return Source{kind: kindOpener, open: open, ext: ext}
}

// Ext is the extension without its dot, "png" when unknown.
func (s Source) Ext() string {
	ext := strings.ToLower(strings.TrimPrefix(s.ext, "."))
	if ext == "" {
		return "png"
	}
	return ext
}

func (s Source) Bytes() ([]byte, error) {
	switch s.kind {
	case kindPath:
		return os.ReadFile(s.path)
	case kindBytes:
		return s.data, nil
	case kindStream:
		return readRestoring(s.stream)
	case kindOpener:
		if s.open == nil {
			return nil, errors.New("image source has no opener")
		}
		rc, err := s.open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	default:
		return nil, fmt.Errorf("unsupported image source kind %d", s.kind)
	}
}

func readRestoring(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("image source has no stream")
	}
	seeker, ok := r.(io.Seeker)
	if !ok {
		return io.ReadAll(r)
	}
	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return io.ReadAll(r)
	}
	data, readErr := io.ReadAll(r)
	if _, err := seeker.Seek(pos, io.SeekStart); err != nil && readErr == nil {
		readErr = fmt.Errorf("restore stream position: %w", err)
	}
	return data, readErr
}
