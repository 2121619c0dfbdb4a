package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(templateFuncs).Parse(reportTemplate))

// Render produces the self-contained HTML document for result.
func Render(result *Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("report: nil result")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("report: render failed: %w", err)
	}
	return buf.String(), nil
}
