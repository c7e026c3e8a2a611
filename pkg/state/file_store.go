package state

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a snapshot file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from a file extension; anything other than
// .json is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// FileStore keeps each snapshot in the file named by Ref.Identifier(). The
// ETag is the SHA-256 of the file content.
type FileStore[T any] struct {
	// Format forces an encoding for writes; empty follows the extension.
	Format Format
}

func NewFileStore[T any]() *FileStore[T] {
	return &FileStore[T]{}
}

func (s *FileStore[T]) Load(_ context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	path, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, Meta{}, false, nil
	}
	if err != nil {
		return zero, Meta{}, false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return zero, Meta{}, false, err
	}

	var snapshot T
	if err := Decode(raw, FormatFor(path), &snapshot); err != nil {
		return zero, Meta{}, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return snapshot, Meta{ETag: etag(raw), UpdatedAt: info.ModTime()}, true, nil
}

func (s *FileStore[T]) Save(_ context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	path, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if meta.ETag != "" {
		current, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Meta{}, err
		}
		if err == nil && etag(current) != meta.ETag {
			return Meta{}, ErrETagMismatch
		}
	}

	format := s.Format
	if format == "" {
		format = FormatFor(path)
	}
	raw, err := Encode(snapshot, format)
	if err != nil {
		return Meta{}, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writeFile(path, raw); err != nil {
		return Meta{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Meta{}, err
	}
	saved := cloneMeta(meta)
	saved.ETag = etag(raw)
	saved.UpdatedAt = info.ModTime()
	return saved, nil
}

// ReadFile decodes a YAML or JSON document from path.
func ReadFile[T any](path string) (T, error) {
	var out T
	raw, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := Decode(raw, FormatFor(path), &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// Decode unmarshals raw into target using format.
func Decode(raw []byte, format Format, target any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if format == FormatJSON {
		return json.Unmarshal(raw, target)
	}
	return yaml.Unmarshal(raw, target)
}

// Encode marshals value using format. JSON output is indented.
func Encode(value any, format Format) ([]byte, error) {
	if format == FormatJSON {
		raw, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(raw, '\n'), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFile(path string, raw []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func etag(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
