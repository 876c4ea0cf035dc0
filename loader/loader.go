// Package loader resolves and fetches stylesheet and fixture
// resources by URL scheme: file URLs and plain paths are read through
// an afero filesystem, http(s) URLs over the network with a cache
// write-back into the corresponding filesystem.
package loader

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// SourceData wraps fetched resource bytes and the URL they came from.
type SourceData struct {
	Data []byte
	URL  *url.URL
}

// UnresolvableURLError is returned by Resolve for specifiers whose
// scheme the harness does not support.
type UnresolvableURLError struct {
	Specifier string
	Scheme    string
}

func (e UnresolvableURLError) Error() string {
	return fmt.Sprintf("only file, http and https schemes are supported, %q has %q", e.Specifier, e.Scheme)
}

var errRequired = errors.New("local or remote path required")

const fetchTimeout = 30 * time.Second

// Resolve turns a resource specifier into an absolute URL. Relative
// specifiers are resolved against pwd; absolute paths become file
// URLs.
func Resolve(pwd *url.URL, specifier string) (*url.URL, error) {
	if specifier == "" {
		return nil, errRequired
	}

	if strings.Contains(specifier, "://") {
		u, err := url.Parse(specifier)
		if err != nil {
			return nil, err
		}
		switch u.Scheme {
		case "file", "http", "https":
			return u, nil
		default:
			return nil, UnresolvableURLError{Specifier: specifier, Scheme: u.Scheme}
		}
	}

	if filepath.IsAbs(specifier) || specifier[0] == '/' {
		return &url.URL{Scheme: "file", Path: filepath.ToSlash(specifier)}, nil
	}

	if pwd == nil {
		return nil, fmt.Errorf("relative specifier %q needs a base URL", specifier)
	}
	base := *pwd
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.Parse(specifier)
}

// Dir returns the directory URL for the given URL, with a trailing
// slash so it can serve as a base for Resolve.
func Dir(old *url.URL) *url.URL {
	return old.ResolveReference(&url.URL{Path: "./"})
}

// Load fetches the resource at u. The filesystems map holds one
// afero.Fs per scheme; http(s) resources found in their filesystem are
// served from it, otherwise fetched over the network and written back
// so repeated loads of the same stylesheet hit the cache.
func Load(
	logger logrus.FieldLogger, filesystems map[string]afero.Fs, u *url.URL,
) (*SourceData, error) {
	logger.WithField("url", u).Debug("Loading resource...")

	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	pathOnFs := path.Clean(u.Path)

	fs, ok := filesystems[scheme]
	if ok {
		data, err := afero.ReadFile(fs, filepath.FromSlash(pathOnFs))
		if err == nil {
			return &SourceData{URL: u, Data: data}, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if scheme == "file" {
		return nil, fmt.Errorf("resource %q not found on local disk", u)
	}

	result, err := loadRemoteURL(logger, u)
	if err != nil {
		return nil, fmt.Errorf("resource %q couldn't be retrieved: %w", u, err)
	}
	if fs != nil {
		_ = afero.WriteFile(fs, filepath.FromSlash(pathOnFs), result.Data, 0o644)
	}
	return result, nil
}

func loadRemoteURL(logger logrus.FieldLogger, u *url.URL) (*SourceData, error) {
	client := http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(u.String()) //nolint:noctx
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"url": u, "bytes": len(data)}).Debug("Fetched remote resource")
	return &SourceData{URL: u, Data: data}, nil
}
