package doctmpl

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/pricing"
)

// dateLayout is the display format for all document dates.
const dateLayout = "02 Jan 2006"

// FeatureRow is one selected add-on line in the rendered document.
type FeatureRow struct {
	Name    string
	OneTime pricing.Cents
	Monthly pricing.Cents
}

// Context is the typed binder between a quote and the template vocabulary.
// Every declared token resolves from exactly one field here; fields left at
// their zero value resolve to the token's fallback (the empty string).
type Context struct {
	QuoteNumber    string
	QuoteDate      time.Time
	QuoteStatus    string
	ExpirationDate *time.Time
	TotalMonthly   pricing.Cents
	TotalOneTime   pricing.Cents
	ContractMonths int
	Notes          string

	CustomerName    string
	ContactName     string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	CustomerCountry string

	ServiceName     string
	ServiceSetupFee pricing.Cents
	Bandwidth       string
	BandwidthPrice  pricing.Cents
	Features        []FeatureRow

	CompanyLogo    string
	CompanyName    string
	CompanyAddress string
	CompanyContact string
	CompanyEmail   string
	PrimaryColor   string
}

// BuildContext assembles a render context from a loaded quote (associations
// preloaded where present) and the active branding profile. Either side may
// be partially absent; missing parts render as empty values.
func BuildContext(q *models.Quote, branding *models.BrandingProfile) *Context {
	ctx := &Context{}
	if q != nil {
		ctx.QuoteNumber = q.Number
		ctx.QuoteDate = q.QuoteDate
		ctx.QuoteStatus = q.Status
		ctx.ExpirationDate = q.ExpirationDate
		ctx.TotalMonthly = pricing.Cents(q.TotalMonthlyCents)
		ctx.TotalOneTime = pricing.Cents(q.TotalOneTimeCents)
		ctx.ContractMonths = q.ContractMonths
		ctx.Notes = q.Notes

		ctx.CustomerName = q.Customer.CompanyName
		ctx.ContactName = q.Customer.ContactName
		ctx.CustomerEmail = q.Customer.Email
		ctx.CustomerPhone = q.Customer.Phone
		ctx.CustomerAddress = q.Customer.Address
		ctx.CustomerCity = q.Customer.City
		ctx.CustomerCountry = q.Customer.Country

		if q.Service != nil {
			ctx.ServiceName = q.Service.Name
			ctx.ServiceSetupFee = pricing.Cents(q.Service.SetupFeeCents)
		}
		if q.BandwidthOption != nil {
			ctx.Bandwidth = fmt.Sprintf("%d %s", q.BandwidthOption.Value, q.BandwidthOption.Unit)
			ctx.BandwidthPrice = pricing.Cents(q.BandwidthOption.MonthlyPriceCents)
		}
		for _, f := range q.Features {
			ctx.Features = append(ctx.Features, FeatureRow{
				Name:    f.Name,
				OneTime: pricing.Cents(f.OneTimeFeeCents),
				Monthly: pricing.Cents(f.MonthlyPriceCents),
			})
		}
	}
	if branding != nil {
		ctx.CompanyLogo = branding.LogoURL
		ctx.CompanyName = branding.CompanyName
		ctx.CompanyAddress = branding.Address
		ctx.CompanyContact = branding.Contact
		ctx.CompanyEmail = branding.Email
		ctx.PrimaryColor = branding.PrimaryColor
	}
	return ctx
}

// tokens maps every declared token name to its formatted value.
func (c *Context) tokens() map[string]string {
	return map[string]string{
		"quoteNumber":    c.QuoteNumber,
		"quoteDate":      formatDate(c.QuoteDate),
		"quoteStatus":    c.QuoteStatus,
		"expirationDate": formatDatePtr(c.ExpirationDate),
		"totalMonthly":   formatCents(c.TotalMonthly),
		"totalOneTime":   formatCents(c.TotalOneTime),
		"contractTerm":   formatTerm(c.ContractMonths),
		"notes":          c.Notes,

		"customerName":    c.CustomerName,
		"contactName":     c.ContactName,
		"customerEmail":   c.CustomerEmail,
		"customerPhone":   c.CustomerPhone,
		"customerAddress": breakLines(c.CustomerAddress),
		"customerCity":    c.CustomerCity,
		"customerCountry": c.CustomerCountry,

		"serviceName":     c.ServiceName,
		"serviceSetupFee": formatCents(c.ServiceSetupFee),
		"bandwidth":       c.Bandwidth,
		"bandwidthPrice":  formatCents(c.BandwidthPrice),
		"featuresRows":    c.featuresRows(),

		"companyLogo":    c.CompanyLogo,
		"companyName":    c.CompanyName,
		"companyAddress": breakLines(c.CompanyAddress),
		"companyContact": c.CompanyContact,
		"companyEmail":   c.CompanyEmail,
		"primaryColor":   c.PrimaryColor,
	}
}

// featuresRows expands the selected features into repeated table rows; an
// empty selection yields an empty string, never a malformed row.
func (c *Context) featuresRows() string {
	if len(c.Features) == 0 {
		return ""
	}
	rows := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		rows = append(rows, fmt.Sprintf(
			`<tr><td>%s</td><td class="num">%s</td><td class="num">%s</td></tr>`,
			f.Name, f.OneTime.Format(), f.Monthly.Format()))
	}
	return strings.Join(rows, "\n")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatCents(c pricing.Cents) string { return c.Format() }

func formatTerm(months int) string {
	if months == 0 {
		return ""
	}
	return fmt.Sprintf("%d months", months)
}

// breakLines converts embedded newlines in multi-line fields to markup.
func breakLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}
