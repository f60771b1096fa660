package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudlink-mu/telquote/internal/doctmpl"
)

// FromContext lays out a resolved quote context as print lines. This is
// the capture-side equivalent of the HTML templates: same data, flat text
// geometry the rasterizer can draw.
func FromContext(c *doctmpl.Context) *Document {
	d := &Document{}

	add := func(text string, bold bool, indent int) {
		d.Lines = append(d.Lines, Line{Text: text, Bold: bold, Indent: indent})
	}
	blank := func() { add("", false, 0) }

	if c.CompanyName != "" {
		add(c.CompanyName, true, 0)
		for _, ln := range splitLines(c.CompanyAddress) {
			add(ln, false, 0)
		}
		add(joinNonEmpty(" / ", c.CompanyContact, c.CompanyEmail), false, 0)
		blank()
	}

	add(fmt.Sprintf("QUOTATION %s", c.QuoteNumber), true, 0)
	add(joinNonEmpty("    ", datePair("Date", c.QuoteDate), datePtrPair("Valid until", c.ExpirationDate)), false, 0)
	if c.QuoteStatus != "" {
		add("Status: "+strings.ToUpper(c.QuoteStatus), false, 0)
	}
	blank()

	add("PREPARED FOR", true, 0)
	add(c.CustomerName, false, 1)
	if c.ContactName != "" {
		add("Attn: "+c.ContactName, false, 1)
	}
	for _, ln := range splitLines(c.CustomerAddress) {
		add(ln, false, 1)
	}
	add(joinNonEmpty(", ", c.CustomerCity, c.CustomerCountry), false, 1)
	add(joinNonEmpty(" / ", c.CustomerEmail, c.CustomerPhone), false, 1)
	blank()

	add("SERVICE", true, 0)
	if c.ServiceName != "" {
		item := c.ServiceName
		if c.Bandwidth != "" {
			item += " - " + c.Bandwidth
		}
		add(item, false, 1)
		add(fmt.Sprintf("Setup fee: MUR %s    Monthly: MUR %s", c.ServiceSetupFee.Format(), c.BandwidthPrice.Format()), false, 1)
	}
	for _, f := range c.Features {
		add(fmt.Sprintf("%s  one-time %s / monthly %s", f.Name, f.OneTime.Format(), f.Monthly.Format()), false, 1)
	}
	blank()

	if c.ContractMonths > 0 {
		add(fmt.Sprintf("Contract term: %d months", c.ContractMonths), false, 0)
	}
	add(fmt.Sprintf("TOTAL ONE-TIME: MUR %s", c.TotalOneTime.Format()), true, 0)
	add(fmt.Sprintf("TOTAL MONTHLY:  MUR %s", c.TotalMonthly.Format()), true, 0)

	if c.Notes != "" {
		blank()
		add("NOTES", true, 0)
		for _, ln := range splitLines(c.Notes) {
			add(ln, false, 1)
		}
	}

	return d
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func datePair(label string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, t.Format("02 Jan 2006"))
}

func datePtrPair(label string, t *time.Time) string {
	if t == nil {
		return ""
	}
	return datePair(label, *t)
}
