// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every record, newest first, to w as YAML or JSON.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	if format != FormatYAML && format != FormatJSON {
		return fmt.Errorf("unsupported export format %q: use %s or %s", format, FormatYAML, FormatJSON)
	}

	records, err := s.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []Record{}
	}

	var data []byte
	if format == FormatJSON {
		data, err = json.MarshalIndent(records, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", format, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
