// Package report serializes a metrics snapshot into the Markdown summary
// document. The template is fixed: identical input yields byte-identical
// output.
package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

// Data is everything the Markdown template consumes.
type Data struct {
	PeriodLabel    string
	Snapshot       metrics.Snapshot
	OpeningBalance core.Money
	ChartFiles     []string // exported chart images referenced at the bottom
}

const markdownTemplate = `# Finance Report ({{.PeriodLabel}})

## KPIs

- **Income:** {{.Snapshot.Income.Format}}
- **Expense:** {{.Snapshot.Expense.Format}}
- **Net:** {{.Snapshot.Net.Format}}
- **Savings rate (of income):** {{printf "%.2f" .Snapshot.ActualSavingsPct}}%
{{- if .Snapshot.Runway.Applicable}}
- **Estimated runway:** {{printf "%.1f" .Snapshot.Runway.Months}} months (opening balance {{.OpeningBalance.Format}})
{{- else}}
- **Estimated runway:** n/a
{{- end}}

## Analysis

{{- with .TopCategories}}
- **Top expense categories:**
{{- range .}}
  - {{.Category}}: {{.Amount.Format}}
{{- end}}
{{- end}}
- **Savings target:** {{printf "%.1f" .Snapshot.TargetSavingsPct}}% | **Actual:** {{printf "%.1f" .Snapshot.ActualSavingsPct}}% | **Gap:** {{printf "%.1f" .Gap}} pts
- **Approximate break-even:** income of at least {{.Snapshot.BreakEven.Format}}
{{- if .Snapshot.Alerts}}

### Alerts
{{range .Snapshot.Alerts}}- {{.Message}}
{{end}}
{{- end}}
{{- if .Snapshot.Recommendations}}
### Recommendations
{{range .Snapshot.Recommendations}}- {{.}}
{{end}}
{{- end}}
{{- if .ChartFiles}}
## Charts
{{range .ChartFiles}}- {{.}}
{{end}}
{{- end}}
> Generated by finanzas-pro-plus
`

var tmpl = template.Must(template.New("report").Parse(markdownTemplate))

// templateData adds the derived fields the template needs.
type templateData struct {
	Data
	TopCategories []metrics.CategoryTotal
	Gap           float64
}

// Render produces the Markdown report text.
func Render(d Data) (string, error) {
	gap := d.Snapshot.SavingsGapPct
	if gap < 0 {
		gap = 0
	}
	td := templateData{
		Data:          d,
		TopCategories: d.Snapshot.TopCategories(3),
		Gap:           gap,
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, td); err != nil {
		return "", fmt.Errorf("render report template: %w", err)
	}
	return b.String(), nil
}
