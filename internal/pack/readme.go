package pack

import (
	"fmt"
	"strings"

	"github.com/apiforge/certpack/api"
	"github.com/apiforge/certpack/internal/swagger"
)

// renderReadme assembles README.md from fixed, ordered sections. The
// supported-operations section is generated by a structural walk of the
// document's surviving operations so the documentation can never drift from
// the filtered and augmented definition.
func renderReadme(doc *swagger.Document, cfg *api.ConnectorConfig) []byte {
	var b strings.Builder

	section := func(heading string) {
		b.WriteString("## ")
		b.WriteString(heading)
		b.WriteString("\n\n")
	}
	para := func(text string) {
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n\n")
	}
	list := func(items []string) {
		for _, item := range items {
			b.WriteString("- ")
			b.WriteString(item)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "# %s\n\n", cfg.DisplayName)
	para(cfg.Description)

	section("Publisher")
	para(cfg.Publisher)

	section("Prerequisites")
	list(cfg.Prerequisites)

	section("Supported Operations")
	for _, ref := range doc.Operations() {
		fmt.Fprintf(&b, "### %s %s\n\n", strings.ToUpper(ref.Method), ref.Path)
		if summary := operationSummary(ref.Operation); summary != "" {
			para(summary)
		}
	}

	section("Obtaining Credentials")
	para(cfg.Auth.Description)
	if cfg.Auth.Tooltip != "" {
		para(cfg.Auth.Tooltip)
	}

	if cfg.GettingStarted != "" {
		section("Getting Started")
		para(cfg.GettingStarted)
	}

	section("Known Issues and Limitations")
	list(cfg.KnownLimitations)

	if cfg.FAQ != "" {
		section("FAQ")
		para(cfg.FAQ)
	}

	section("Deployment Instructions")
	para(cfg.Deployment)

	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}

func operationSummary(op *swagger.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	return op.Description
}
