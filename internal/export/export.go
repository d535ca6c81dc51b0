// Package export writes report artifacts to disk: chart PNGs, the Markdown
// report, a PDF rendition, an XLSX workbook and a ZIP bundle. Every artifact
// is built fully in memory and written in one shot, so a failed artifact
// never leaves a partial file behind and never blocks the other artifacts.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/santty1906/finanzas-pro-plus/internal/charts"
	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
	"github.com/santty1906/finanzas-pro-plus/internal/report"
)

// Format selects one artifact type.
type Format string

const (
	FormatPNG  Format = "png"
	FormatMD   Format = "md"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatZIP  Format = "zip"
)

// Formats lists every supported artifact type in output order.
var Formats = []Format{FormatPNG, FormatMD, FormatPDF, FormatXLSX, FormatZIP}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Request carries everything a full export needs.
type Request struct {
	Transactions []core.Transaction
	Snapshot     metrics.Snapshot
	PeriodLabel  string
	Settings     metrics.Settings
	ChartOptions charts.Options
	Formats      []Format
}

// Result reports what was written and which artifacts failed. A failed
// artifact does not abort the run; callers inspect Errors afterwards.
type Result struct {
	Written []string
	Errors  []error
}

// Exporter writes artifacts into a single output directory.
type Exporter struct {
	dir      string
	fontPath string
	renderer *charts.Renderer
	log      *log.Logger
}

// New returns an exporter rooted at dir. fontPath may be empty, in which
// case a system font is looked up when a PDF is requested.
func New(dir, fontPath string, logger *log.Logger) *Exporter {
	return &Exporter{
		dir:      dir,
		fontPath: fontPath,
		renderer: charts.NewRenderer(),
		log:      logger.WithComponent(log.ComponentExport),
	}
}

// Export produces the requested artifacts. Chart PNGs are rendered once and
// shared by the PDF and ZIP artifacts.
func (e *Exporter) Export(req Request) Result {
	var res Result
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("create output dir: %w", err))
		return res
	}

	pngs, chartErr := e.renderCharts(req)
	md, mdErr := report.Render(report.Data{
		PeriodLabel:    req.PeriodLabel,
		Snapshot:       req.Snapshot,
		OpeningBalance: req.Settings.OpeningBalance,
		ChartFiles:     chartNames(),
	})

	for _, f := range req.Formats {
		var (
			path string
			err  error
		)
		switch f {
		case FormatPNG:
			if chartErr != nil {
				err = chartErr
				break
			}
			for _, name := range chartNames() {
				p := filepath.Join(e.dir, name)
				if werr := os.WriteFile(p, pngs[name], 0o644); werr != nil {
					err = fmt.Errorf("write %s: %w", name, werr)
					break
				}
				res.Written = append(res.Written, p)
			}
		case FormatMD:
			if mdErr != nil {
				err = mdErr
				break
			}
			path = filepath.Join(e.dir, "report.md")
			err = os.WriteFile(path, []byte(md), 0o644)
		case FormatPDF:
			path = filepath.Join(e.dir, "report.pdf")
			err = e.writePDF(path, req, pngs)
		case FormatXLSX:
			path = filepath.Join(e.dir, "transactions.xlsx")
			err = e.writeXLSX(path, req)
		case FormatZIP:
			if chartErr != nil {
				err = chartErr
				break
			}
			if mdErr != nil {
				err = mdErr
				break
			}
			path = filepath.Join(e.dir, "report_bundle.zip")
			err = e.writeZIP(path, md, pngs)
		default:
			err = fmt.Errorf("unknown export format %q", f)
		}

		if err != nil {
			e.log.Error("artifact failed", log.FieldFormat, string(f), log.FieldError, err.Error())
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", f, err))
			continue
		}
		if path != "" {
			res.Written = append(res.Written, path)
		}
		e.log.Info("artifact written", log.FieldFormat, string(f))
	}
	return res
}

// chartNames returns the PNG file names in their fixed output order.
func chartNames() []string {
	names := make([]string, len(charts.Kinds))
	for i, k := range charts.Kinds {
		names[i] = fmt.Sprintf("%02d_%s.png", i+1, k)
	}
	return names
}

func (e *Exporter) renderCharts(req Request) (map[string][]byte, error) {
	out := make(map[string][]byte, len(charts.Kinds))
	for i, kind := range charts.Kinds {
		png, err := e.renderer.Render(kind, req.Transactions, req.Snapshot, req.ChartOptions)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", kind, err)
		}
		out[fmt.Sprintf("%02d_%s.png", i+1, kind)] = png
	}
	return out, nil
}
