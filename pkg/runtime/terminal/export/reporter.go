package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/aggregation"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type TableConfig struct {
	LabelWidth  int
	BarWidth    int
	ColumnWidth int
	LabelLimit  int
	WrapWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth:  aggregation.DefaultLabelLimit,
		BarWidth:    40,
		ColumnWidth: 8,
		LabelLimit:  aggregation.DefaultLabelLimit,
		WrapWidth:   80,
	}
}

type Reporter struct {
	writer   io.Writer
	config   TableConfig
	printer  *message.Printer
	markdown *glamour.TermRenderer
	tmpl     *template.Template
}

func NewReporter(writer io.Writer, config TableConfig) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	defaults := DefaultTableConfig()
	if config.LabelLimit <= 0 {
		config.LabelLimit = defaults.LabelLimit
	}
	if config.LabelWidth <= 0 {
		config.LabelWidth = config.LabelLimit
	}
	if config.BarWidth <= 0 {
		config.BarWidth = defaults.BarWidth
	}
	if config.ColumnWidth <= 0 {
		config.ColumnWidth = defaults.ColumnWidth
	}
	if config.WrapWidth <= 0 {
		config.WrapWidth = defaults.WrapWidth
	}

	c := &Reporter{
		writer:  writer,
		config:  config,
		printer: message.NewPrinter(language.English),
	}
	// Without a renderer the summary is printed as raw markdown.
	c.markdown, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(config.WrapWidth),
	)
	c.tmpl = template.Must(template.New("report").Funcs(c.funcs()).Parse(templates))
	return c
}

func (c *Reporter) Dashboard(snap viewmodel.DashboardSnapshot) error {
	return c.tmpl.ExecuteTemplate(c.writer, "dashboard", snap)
}

func (c *Reporter) Agencies(snap viewmodel.ListSnapshot[domain.Agency]) error {
	return c.tmpl.ExecuteTemplate(c.writer, "agencies", snap)
}

func (c *Reporter) Titles(snap viewmodel.ListSnapshot[domain.Title]) error {
	return c.tmpl.ExecuteTemplate(c.writer, "titles", snap)
}

func (c *Reporter) AgencyDetail(snap viewmodel.AgencyDetailSnapshot) error {
	return c.tmpl.ExecuteTemplate(c.writer, "agency", snap)
}

func (c *Reporter) TitleDetail(snap viewmodel.TitleDetailSnapshot) error {
	return c.tmpl.ExecuteTemplate(c.writer, "title", snap)
}

func (c *Reporter) Readiness(state domain.ReadinessState) error {
	return c.tmpl.ExecuteTemplate(c.writer, "readiness", state)
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"bars":   c.bars,
		"series": c.series,
		"cell": func(width int, v any) string {
			s := aggregation.TruncateLabel(fmt.Sprint(v), width)
			return fmt.Sprintf("%-*s", width, s)
		},
		"count": func(v *int64) string {
			if v == nil {
				return "-"
			}
			return c.printer.Sprintf("%d", *v)
		},
		"number": func(v float64) string {
			return c.printer.Sprintf("%.0f", v)
		},
		"markdown": c.renderMarkdown,
		"ref": func(ref *domain.EntityRef) string {
			if ref == nil {
				return "-"
			}
			if ref.Name != "" {
				return ref.Name
			}
			return ref.ID
		},
		"inc": func(i int) int { return i + 1 },
	}
}

// bars draws the first dataset as horizontal bars scaled to the largest value.
func (c *Reporter) bars(chart domain.ChartSeries) string {
	if chart.Empty() || len(chart.Datasets) == 0 {
		return "  (no data)\n"
	}
	values := chart.Datasets[0].Values
	top := slices.Max(values)

	var b strings.Builder
	for i, label := range chart.Labels {
		width := 0
		if top > 0 {
			width = int(math.Round(values[i] / top * float64(c.config.BarWidth)))
		}
		fmt.Fprintf(&b, "  %-*s %s %s\n",
			c.config.LabelWidth, aggregation.TruncateLabel(label, c.config.LabelLimit),
			strings.Repeat("█", width),
			c.printer.Sprintf("%.0f", values[i]))
	}
	return b.String()
}

// series prints one row per dataset and one column per bucket.
func (c *Reporter) series(chart domain.ChartSeries) string {
	if chart.Empty() {
		return "  (no data)\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %-*s", c.config.LabelWidth, "")
	for _, label := range chart.Labels {
		fmt.Fprintf(&b, " %*s", c.config.ColumnWidth, label)
	}
	b.WriteString("\n")
	for _, ds := range chart.Datasets {
		fmt.Fprintf(&b, "  %-*s", c.config.LabelWidth, aggregation.TruncateLabel(ds.Label, c.config.LabelLimit))
		for _, v := range ds.Values {
			fmt.Fprintf(&b, " %*s", c.config.ColumnWidth, c.printer.Sprintf("%.0f", v))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Reporter) renderMarkdown(text string) string {
	if c.markdown == nil {
		return text
	}
	out, err := c.markdown.Render(text)
	if err != nil {
		return text
	}
	return out
}

const templates = `
{{define "status"}}{{if eq .Screen "error"}}Error: {{.Message}}
{{else if eq .Screen "unready"}}{{.Message}}
{{else if eq .Screen "loading"}}Loading...
{{end}}{{end}}

{{define "readiness"}}Backend: {{.Phase}}{{if .Message}} ({{.Message}}){{end}}{{if .Attempt}}, attempt {{.Attempt}}{{end}}
{{end}}

{{define "chart"}}{{if .Failed}}  unavailable: {{.Err}}
{{else if .Loaded}}{{bars .Value}}{{else}}  loading...
{{end}}{{end}}

{{define "timeline"}}{{if .Failed}}  unavailable: {{.Err}}
{{else if .Loaded}}{{series .Value}}{{else}}  loading...
{{end}}{{end}}

{{define "page"}}Page {{inc .Page}} of {{.PageCount}} ({{.Total}} matching){{if .Filters.Search}}, search "{{.Filters.Search}}"{{end}}{{if .Filters.Category}}, agency {{.Filters.Category}}{{end}}{{if .SortKey}}, sorted by {{.SortKey}}{{end}}
{{end}}

{{define "dashboard"}}{{template "status" .Status}}{{if eq .Screen "ready"}}
=== eCFR Dashboard ===
Agencies: {{.Headline.Count}}  Total words: {{number .Headline.Total}}  Largest: {{.Headline.MaxEntity}}

=== Word Count by Agency ===
{{template "chart" .WordCount}}
=== Change Frequency by Agency ===
{{template "chart" .ChangeFrequency}}
=== Summary ===
{{with .Summary}}{{if .Failed}}  unavailable: {{.Err}}
{{else if .Loaded}}{{markdown .Value}}{{else}}  loading...
{{end}}{{end}}{{end}}{{end}}

{{define "agencies"}}{{template "status" .Status}}{{if eq .Screen "ready"}}{{with .View}}
| {{cell 12 "ID"}} | {{cell 50 "Name"}} | {{cell 10 "Acronym"}} |
{{range .Visible}}| {{cell 12 .ID}} | {{cell 50 .Name}} | {{cell 10 .Acronym}} |
{{end}}{{template "page" .}}{{end}}{{end}}{{end}}

{{define "titles"}}{{template "status" .Status}}{{if eq .Screen "ready"}}{{with .View}}
| {{cell 6 "No."}} | {{cell 50 "Name"}} | {{cell 12 "Words"}} | {{cell 30 "Agency"}} |
{{range .Visible}}| {{cell 6 .Number}} | {{cell 50 .Name}} | {{cell 12 (count .WordCount)}} | {{cell 30 (ref .Agency)}} |
{{end}}{{template "page" .}}{{end}}{{with .FilterOptions}}{{if .Failed}}Agency filter unavailable: {{.Err}}
{{end}}{{end}}{{end}}{{end}}

{{define "agency"}}{{template "status" .Status}}{{if eq .Screen "ready"}}
=== {{.Agency.Name}}{{if .Agency.Acronym}} ({{.Agency.Acronym}}){{end}} ===
Titles: {{len .Titles}}
{{range .Titles}}  {{.Name}} ({{count .WordCount}} words)
{{end}}
=== Word Count by Title ===
{{template "chart" .WordCount}}
=== Changes Over Time ===
{{template "timeline" .ChangesOverTime}}{{end}}{{end}}

{{define "title"}}{{template "status" .Status}}{{if eq .Screen "ready"}}
=== {{.Title.Name}} ===
Agency: {{ref .Title.Agency}}  Words: {{count .Title.WordCount}}{{with .Title.LatestAmendedOn}}  Last amended: {{.Format "2006-01-02"}}{{end}}

=== Word Count by Section ===
{{template "chart" .WordCount}}
=== Sections ===
{{with .Sections}}{{range .Visible}}  {{cell 12 .Number}} {{.Heading}}{{if .WordCount}} ({{count .WordCount}} words){{end}}
{{end}}{{template "page" .}}{{end}}{{end}}{{end}}
`
