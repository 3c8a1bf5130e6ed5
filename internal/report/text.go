package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

func generateText(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "INSIGHTS - %s\n", r.Company.Name())
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Generated: %s\n\n", r.Generated.Format("2006-01-02 15:04:05"))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, m := range r.metrics() {
		fmt.Fprintf(tw, "%s\t%s\n", m.Label, m.Value)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	writeList(&buf, "PROS", r.Pros)
	writeList(&buf, "CONS", r.Cons)
	return buf.Bytes(), nil
}

func writeList(buf *bytes.Buffer, title string, items []string) {
	fmt.Fprintf(buf, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	if len(items) == 0 {
		buf.WriteString("None\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(buf, "• %s\n", item)
	}
}
