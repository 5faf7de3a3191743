// =============================================================================
// dumpfile.go - Dump Locations
// =============================================================================
//
// Where exports are written and restores read from: local files, stdio,
// or Cloud Storage objects.
//
// =============================================================================

// Package dumpfile opens the files keyspace dumps are read from and written
// to. A location is a local path, "-" for stdin/stdout, or a Cloud Storage
// object written as gs://bucket/object.
package dumpfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

const (
	// Stdio selects stdin for reading and stdout for writing.
	Stdio = "-"

	gcsScheme = "gs://"
)

// ErrInvalidLocation indicates a location that names nothing.
var ErrInvalidLocation = errors.New("invalid dump location")

// Location is a parsed dump location.
type Location struct {
	Path   string // local path, or Stdio
	Bucket string // set for Cloud Storage
	Object string
}

// ParseLocation parses raw into a Location.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}
	if !strings.HasPrefix(raw, gcsScheme) {
		return Location{Path: raw}, nil
	}

	rest := strings.TrimPrefix(raw, gcsScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return Location{}, fmt.Errorf("%w: %q must be gs://bucket/object", ErrInvalidLocation, raw)
	}
	return Location{Bucket: bucket, Object: object}, nil
}

// IsGCS reports whether the location is a Cloud Storage object.
func (l Location) IsGCS() bool {
	return l.Bucket != ""
}

// String returns the location as it was written.
func (l Location) String() string {
	if l.IsGCS() {
		return gcsScheme + l.Bucket + "/" + l.Object
	}
	return l.Path
}

// Open opens raw for reading.
func Open(ctx context.Context, raw string) (io.ReadCloser, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}

	switch {
	case loc.IsGCS():
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage client: %w", err)
		}
		r, err := client.Bucket(loc.Bucket).Object(loc.Object).NewReader(ctx)
		if err != nil {
			client.Close()
			if errors.Is(err, storage.ErrObjectNotExist) {
				return nil, fmt.Errorf("open %s: %w", loc, os.ErrNotExist)
			}
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
		return &gcsCloser{Reader: r, closeObj: r.Close, client: client}, nil
	case loc.Path == Stdio:
		return io.NopCloser(os.Stdin), nil
	default:
		return os.Open(loc.Path)
	}
}

// Create opens raw for writing, truncating local files. Cloud Storage
// objects are committed on Close.
func Create(ctx context.Context, raw string) (io.WriteCloser, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}

	switch {
	case loc.IsGCS():
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage client: %w", err)
		}
		w := client.Bucket(loc.Bucket).Object(loc.Object).NewWriter(ctx)
		w.ContentType = "text/plain; charset=utf-8"
		return &gcsCloser{Writer: w, closeObj: w.Close, client: client}, nil
	case loc.Path == Stdio:
		return nopWriteCloser{os.Stdout}, nil
	default:
		return os.Create(loc.Path)
	}
}

// gcsCloser closes the object handle and then the client that owns it.
type gcsCloser struct {
	io.Reader
	io.Writer
	closeObj func() error
	client   *storage.Client
}

func (c *gcsCloser) Close() error {
	err := c.closeObj()
	if cerr := c.client.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
