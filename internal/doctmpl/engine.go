// Package doctmpl resolves placeholder-bearing HTML document templates
// against quote data. Templates use double-curly tokens ({{quoteNumber}});
// the recognized vocabulary is fixed, and tokens outside it pass through
// untouched so template authors see their typo rather than silent output.
package doctmpl

import (
	"regexp"
	"sort"
	"strings"
)

// Vocabulary lists every recognized token name, grouped roughly by source.
var Vocabulary = []string{
	"quoteNumber", "quoteDate", "quoteStatus", "expirationDate",
	"totalMonthly", "totalOneTime", "contractTerm", "notes",
	"customerName", "contactName", "customerEmail", "customerPhone",
	"customerAddress", "customerCity", "customerCountry",
	"serviceName", "serviceSetupFee", "bandwidth", "bandwidthPrice", "featuresRows",
	"companyLogo", "companyName", "companyAddress", "companyContact",
	"companyEmail", "primaryColor",
}

var tokenRegex = regexp.MustCompile(`\{\{([A-Za-z][A-Za-z0-9]*)\}\}`)

// Render substitutes every recognized placeholder in tpl with its formatted
// value from ctx. Declared tokens with no value resolve to the empty string;
// unrecognized tokens are left as literal text. Applying Render to its own
// output is a no-op, since substituted values carry no placeholder syntax.
func Render(tpl string, ctx *Context) string {
	out := tpl
	for name, value := range ctx.tokens() {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}

// Unresolved reports which recognized tokens appear in tpl but would render
// empty under ctx, and which tokens in tpl are outside the vocabulary.
// It backs the authoring-time strict check; Render itself never fails.
func Unresolved(tpl string, ctx *Context) (empty, unknown []string) {
	values := ctx.tokens()
	seenEmpty := map[string]bool{}
	seenUnknown := map[string]bool{}
	for _, m := range tokenRegex.FindAllStringSubmatch(tpl, -1) {
		name := m[1]
		v, declared := values[name]
		switch {
		case !declared:
			seenUnknown[name] = true
		case v == "":
			seenEmpty[name] = true
		}
	}
	for n := range seenEmpty {
		empty = append(empty, n)
	}
	for n := range seenUnknown {
		unknown = append(unknown, n)
	}
	sort.Strings(empty)
	sort.Strings(unknown)
	return empty, unknown
}
