package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/signintech/gopdf"
)

// A4 in points.
const (
	pageW  = 595.28
	pageH  = 841.89
	margin = 40.0
)

// fontSearchPaths are tried in order when no font path is configured.
var fontSearchPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

func (e *Exporter) resolveFont() (string, error) {
	if e.fontPath != "" {
		if _, err := os.Stat(e.fontPath); err != nil {
			return "", fmt.Errorf("font %s: %w", e.fontPath, err)
		}
		return e.fontPath, nil
	}
	for _, p := range fontSearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no usable TTF font found; set EXPORT_FONT_PATH")
}

// writePDF builds a summary page followed by one page per chart.
func (e *Exporter) writePDF(path string, req Request, pngs map[string][]byte) error {
	font, err := e.resolveFont()
	if err != nil {
		return err
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont("main", font); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	if err := e.pdfSummaryPage(&pdf, req); err != nil {
		return err
	}
	for _, name := range chartNames() {
		png, ok := pngs[name]
		if !ok {
			continue
		}
		if err := e.pdfChartPage(&pdf, name, png); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (e *Exporter) pdfSummaryPage(pdf *gopdf.GoPdf, req Request) error {
	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(0x15, 0x65, 0xC0)
	pdf.RectFromUpperLeftWithStyle(0, 0, pageW, 90, "F")
	pdf.SetTextColor(255, 255, 255)
	if err := pdf.SetFont("main", "", 24); err != nil {
		return fmt.Errorf("set font: %w", err)
	}
	pdf.SetXY(margin, 28)
	pdf.Cell(nil, "Finance Report")
	if err := pdf.SetFont("main", "", 12); err != nil {
		return err
	}
	pdf.SetXY(margin, 62)
	pdf.Cell(nil, fmt.Sprintf("Period: %s", req.PeriodLabel))

	snap := req.Snapshot
	pdf.SetTextColor(45, 52, 54)
	y := 120.0
	line := func(label, value string) error {
		if err := pdf.SetFont("main", "", 13); err != nil {
			return err
		}
		pdf.SetXY(margin, y)
		pdf.Cell(nil, label)
		pdf.SetXY(220, y)
		pdf.Cell(nil, value)
		y += 22
		return nil
	}

	rows := []struct{ label, value string }{
		{"Income", snap.Income.Format()},
		{"Expense", snap.Expense.Format()},
		{"Net", snap.Net.Format()},
		{"Savings rate", fmt.Sprintf("%.2f%% (target %.1f%%)", snap.ActualSavingsPct, snap.TargetSavingsPct)},
		{"Break-even income", snap.BreakEven.Format()},
	}
	if snap.Runway.Applicable {
		rows = append(rows, struct{ label, value string }{
			"Estimated runway", fmt.Sprintf("%.1f months", snap.Runway.Months),
		})
	} else {
		rows = append(rows, struct{ label, value string }{"Estimated runway", "n/a"})
	}
	for _, r := range rows {
		if err := line(r.label, r.value); err != nil {
			return err
		}
	}

	if len(snap.Alerts) > 0 {
		y += 14
		if err := pdf.SetFont("main", "", 14); err != nil {
			return err
		}
		pdf.SetXY(margin, y)
		pdf.Cell(nil, "Alerts")
		y += 22
		if err := pdf.SetFont("main", "", 11); err != nil {
			return err
		}
		for _, a := range snap.Alerts {
			pdf.SetXY(margin, y)
			pdf.Cell(nil, "- "+a.Message)
			y += 18
		}
	}
	if len(snap.Recommendations) > 0 {
		y += 14
		if err := pdf.SetFont("main", "", 14); err != nil {
			return err
		}
		pdf.SetXY(margin, y)
		pdf.Cell(nil, "Recommendations")
		y += 22
		if err := pdf.SetFont("main", "", 11); err != nil {
			return err
		}
		for _, r := range snap.Recommendations {
			pdf.SetXY(margin, y)
			pdf.Cell(nil, "- "+r)
			y += 18
		}
	}
	return nil
}

func (e *Exporter) pdfChartPage(pdf *gopdf.GoPdf, name string, png []byte) error {
	pdf.AddPage()
	if err := pdf.SetFont("main", "", 12); err != nil {
		return err
	}
	pdf.SetTextColor(45, 52, 54)
	pdf.SetXY(margin, margin)
	pdf.Cell(nil, name)

	holder, err := gopdf.ImageHolderByBytes(png)
	if err != nil {
		return fmt.Errorf("image %s: %w", name, err)
	}
	// 16:9-ish figure scaled to the printable width.
	w := pageW - 2*margin
	h := w * 9 / 16
	if err := pdf.ImageByHolder(holder, margin, margin+30, &gopdf.Rect{W: w, H: h}); err != nil {
		return fmt.Errorf("place %s: %w", name, err)
	}
	return nil
}
