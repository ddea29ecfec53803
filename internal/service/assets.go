package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// safeName accepts a single path element.
func safeName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("service: %w: bad path element %q", circuit.ErrInvalidInput, name)
	}
	return nil
}

func (s *Service) assetPath(folder string, file ...string) (string, error) {
	if err := safeName(folder); err != nil {
		return "", err
	}
	parts := []string{s.assetsDir, folder}
	for _, f := range file {
		if err := safeName(f); err != nil {
			return "", err
		}
		parts = append(parts, f)
	}
	return filepath.Join(parts...), nil
}

// ListCode returns the names of the files in a circuit's asset folder.
func (s *Service) ListCode(folder string) ([]string, error) {
	dir, err := s.assetPath(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("service: asset folder %s: %w", folder, circuit.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to read asset folder: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadCode returns the content of one asset file.
func (s *Service) ReadCode(folder, file string) (string, error) {
	path, err := s.assetPath(folder, file)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("service: file %s/%s: %w", folder, file, circuit.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("service: failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteCode stores one asset file, creating the folder if needed.
func (s *Service) WriteCode(folder, file, content string) error {
	path, err := s.assetPath(folder, file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("service: failed to create asset folder: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("service: failed to write file: %w", err)
	}
	s.logger.Debug("Code file saved", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}
