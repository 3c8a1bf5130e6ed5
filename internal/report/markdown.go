package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var mdCell = strings.NewReplacer("|", `\|`, "\n", " ")

func generateMarkdown(r *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Company.Name())
	fmt.Fprintf(&sb, "_Generated %s_\n\n", r.Generated.Format("2006-01-02 15:04"))
	if about := r.Company.AboutCompany.String(); about != "" {
		sb.WriteString(about + "\n\n")
	}

	sb.WriteString("| Metric | Value |\n|---|---|\n")
	for _, m := range r.metrics() {
		fmt.Fprintf(&sb, "| %s | %s |\n", m.Label, mdCell.Replace(m.Value))
	}

	markdownList(&sb, "Pros", r.Pros)
	markdownList(&sb, "Cons", r.Cons)
	return sb.String()
}

func markdownList(sb *strings.Builder, title string, items []string) {
	fmt.Fprintf(sb, "\n## %s\n\n", title)
	if len(items) == 0 {
		sb.WriteString("_None_\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s insights</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 800px; margin: 24px auto; color: #222; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ddd; padding: 4px 10px; text-align: left; }
</style>
</head>
<body>
`

// generateHTML converts the markdown rendition with goldmark.
func generateHTML(r *Report) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(generateMarkdown(r)), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, htmlHead, htmlEscape(r.Company.Name()))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;")

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
