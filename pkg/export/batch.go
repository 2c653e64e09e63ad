package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// BatchResult names the files written by SaveAll.
type BatchResult struct {
	Paths []string
}

// SaveAll exports the same snapshot in several formats concurrently.
// basePath has its extension stripped; each format appends its own.
// Supported formats: png, svg, json.
func SaveAll(opts SnapshotOptions, basePath string, formats []string) (BatchResult, error) {
	var result BatchResult
	if len(formats) == 0 {
		return result, fmt.Errorf("no formats requested")
	}

	base := strings.TrimSuffix(basePath, filepath.Ext(basePath))
	if base == "" {
		return result, fmt.Errorf("output path is required")
	}

	paths := make([]string, len(formats))
	var g errgroup.Group
	for i, format := range formats {
		format = strings.ToLower(strings.TrimPrefix(format, "."))
		path := base + "." + format
		paths[i] = path

		switch format {
		case "png", "svg":
			o := opts
			o.Path = path
			o.Format = format
			g.Go(func() error {
				if err := SaveSnapshot(o); err != nil {
					return fmt.Errorf("%s export: %w", o.Format, err)
				}
				return nil
			})
		case "json":
			doc := NewSeriesDocument(opts)
			g.Go(func() error {
				if err := SaveJSON(path, doc); err != nil {
					return fmt.Errorf("json export: %w", err)
				}
				return nil
			})
		default:
			return result, fmt.Errorf("unsupported format %q (want png, svg, or json)", format)
		}
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	result.Paths = paths
	return result, nil
}
