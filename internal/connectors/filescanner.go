// Package connectors loads datasets and their metadata from the places
// open-government data lives: directories of CSV exports, the Socrata open
// data API and SQLite databases.
package connectors

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// MetadataSuffixes are the sidecar names tried next to a data file, in order.
var MetadataSuffixes = []string{".meta.json", ".meta.yaml", ".meta.yml"}

type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

// Dataset is a data file plus the sidecar metadata found next to it, if any.
type Dataset struct {
	FileMeta
	Name         string
	MetadataPath string
}

func (d Dataset) HasMetadata() bool { return d.MetadataPath != "" }

type DiscoveryOptions struct {
	Recursive      bool
	MinSize        int64
	MaxSize        int64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
}

func (o DiscoveryOptions) accept(info fs.FileInfo) bool {
	if o.MinSize > 0 && info.Size() < o.MinSize {
		return false
	}
	if o.MaxSize > 0 && info.Size() > o.MaxSize {
		return false
	}
	if !o.ModifiedAfter.IsZero() && info.ModTime().Before(o.ModifiedAfter) {
		return false
	}
	if !o.ModifiedBefore.IsZero() && info.ModTime().After(o.ModifiedBefore) {
		return false
	}
	return true
}

// DiscoverFiles lists files under root with the given extension.
func DiscoverFiles(root string, ext string, options DiscoveryOptions) ([]FileMeta, error) {
	if root == "" {
		return nil, eris.New("root directory cannot be empty")
	}
	stat, err := os.Stat(root)
	if err != nil {
		return nil, eris.Wrapf(err, "scan %s", root)
	}
	if !stat.IsDir() {
		return nil, eris.Errorf("path is not a directory: %s", root)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return nil, eris.New("file extension cannot be empty")
	}

	var files []FileMeta
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "access %s", path)
		}
		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), "."+ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return eris.Wrapf(err, "stat %s", path)
		}
		if !options.accept(info) {
			return nil
		}
		files = append(files, FileMeta{Path: path, Size: info.Size(), Modified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "directory walk")
	}
	return files, nil
}

// DiscoverDatasets finds every CSV under root and pairs it with a sidecar
// metadata file named <name>.meta.json, .meta.yaml or .meta.yml.
func DiscoverDatasets(root string, options DiscoveryOptions) ([]Dataset, error) {
	files, err := DiscoverFiles(root, "csv", options)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, eris.Errorf("no CSV files found in %s", root)
	}

	datasets := make([]Dataset, 0, len(files))
	for _, f := range files {
		datasets = append(datasets, Dataset{
			FileMeta:     f,
			Name:         strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path)),
			MetadataPath: Sidecar(f.Path),
		})
	}
	return datasets, nil
}

// Sidecar returns the metadata file that belongs to a data file, or "".
func Sidecar(dataPath string) string {
	base := strings.TrimSuffix(dataPath, filepath.Ext(dataPath))
	for _, suffix := range MetadataSuffixes {
		if info, err := os.Stat(base + suffix); err == nil && !info.IsDir() {
			return base + suffix
		}
	}
	return ""
}
