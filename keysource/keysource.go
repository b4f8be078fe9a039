package keysource

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrMissing - neither of a mutually exclusive (path, data) pair was provided
	ErrMissing = errors.New("missing configuration: neither path nor inline data set")
	// ErrAmbiguous - both of a mutually exclusive (path, data) pair were provided
	ErrAmbiguous = errors.New("ambiguous configuration: both path and inline data set")
)

// Source describes where key material (certificates, keys, tokens) comes from
// without holding the bytes themselves. Implementations are immutable descriptors;
// the bytes are only materialized through Open, and callers must close the reader.
//
// The variant set is closed: File, Base64 and Literal are the only implementations.
type Source interface {
	Open() (io.ReadCloser, error)

	sealed()
}

// File reads key material from a file on disk.
type File struct {
	Path string
}

// Base64 holds key material as a base64-encoded literal, e.g. the
// `*-data` fields of a kubeconfig.
type Base64 struct {
	Encoded string
}

// Literal holds key material directly as a string.
type Literal struct {
	Value string
}

func (s File) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s Base64) Open() (io.ReadCloser, error) {
	decoded, err := base64.StdEncoding.DecodeString(s.Encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 key material: %w", err)
	}
	return io.NopCloser(bytes.NewReader(decoded)), nil
}

func (s Literal) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte(s.Value))), nil
}

func (File) sealed()    {}
func (Base64) sealed()  {}
func (Literal) sealed() {}

// From builds a Source from a mutually exclusive (path, base64 data) pair, as
// found throughout kubeconfig entries (`client-certificate` vs
// `client-certificate-data` and friends). Exactly one must be set.
func From(path string, base64Data string) (Source, error) {
	switch {
	case path == "" && base64Data == "":
		return nil, ErrMissing
	case path != "" && base64Data != "":
		return nil, ErrAmbiguous
	case path != "":
		return File{Path: path}, nil
	default:
		return Base64{Encoded: base64Data}, nil
	}
}

// Text drains a Source into a string, closing the underlying reader on every path.
func Text(src Source) (string, error) {
	reader, err := src.Open()
	if err != nil {
		return "", err
	}

	defer func(reader io.ReadCloser) {
		if e := reader.Close(); e != nil {
			fmt.Println(e)
		}
	}(reader)

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Bytes drains a Source into a byte slice, closing the underlying reader on every path.
func Bytes(src Source) ([]byte, error) {
	reader, err := src.Open()
	if err != nil {
		return nil, err
	}

	defer func(reader io.ReadCloser) {
		if e := reader.Close(); e != nil {
			fmt.Println(e)
		}
	}(reader)

	return io.ReadAll(reader)
}
