package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
)

// writeZIP bundles the Markdown report and the chart PNGs. Entries keep the
// fixed chart order so the archive listing is stable.
func (e *Exporter) writeZIP(path, md string, pngs map[string][]byte) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name string, data []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("zip write %s: %w", name, err)
		}
		return nil
	}

	if err := add("report.md", []byte(md)); err != nil {
		return err
	}
	for _, name := range chartNames() {
		if png, ok := pngs[name]; ok {
			if err := add(name, png); err != nil {
				return err
			}
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
