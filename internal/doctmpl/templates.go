package doctmpl

// Built-in templates seeded at first migration. Administrators may edit
// these or add their own; content is trusted and rendered unsanitized.

const StandardQuoteTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Quote {{quoteNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  .header { display: flex; justify-content: space-between; border-bottom: 4px solid {{primaryColor}}; padding-bottom: 16px; }
  .header img { max-height: 64px; }
  h1 { color: {{primaryColor}}; margin: 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; background: {{primaryColor}}; color: #fff; padding: 6px 8px; }
  td { padding: 6px 8px; border-bottom: 1px solid #ddd; }
  td.num { text-align: right; }
  .totals { margin-top: 16px; font-size: 1.1em; }
  .footer { margin-top: 32px; font-size: 0.85em; color: #666; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{companyName}}</h1>
    <p>{{companyAddress}}<br>{{companyContact}} &middot; {{companyEmail}}</p>
  </div>
  <img src="{{companyLogo}}" alt="logo">
</div>

<h2>Quotation {{quoteNumber}}</h2>
<p>Date: {{quoteDate}} &middot; Valid until: {{expirationDate}} &middot; Status: {{quoteStatus}}</p>

<h3>Prepared for</h3>
<p><strong>{{customerName}}</strong><br>
Attn: {{contactName}}<br>
{{customerAddress}}<br>
{{customerCity}}, {{customerCountry}}<br>
{{customerEmail}} {{customerPhone}}</p>

<h3>Service</h3>
<table>
  <tr><th>Item</th><th>One-time (MUR)</th><th>Monthly (MUR)</th></tr>
  <tr><td>{{serviceName}} &mdash; {{bandwidth}}</td><td class="num">{{serviceSetupFee}}</td><td class="num">{{bandwidthPrice}}</td></tr>
  {{featuresRows}}
</table>

<div class="totals">
  <p>Contract term: {{contractTerm}}</p>
  <p><strong>Total one-time: MUR {{totalOneTime}}</strong><br>
  <strong>Total monthly: MUR {{totalMonthly}}</strong></p>
</div>

<p>{{notes}}</p>

<div class="footer">
  {{companyName}} &middot; {{companyEmail}} &middot; Prices exclude VAT unless stated otherwise.
</div>
</body>
</html>`

const OrderFormTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Service Order Form {{quoteNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  .band { background: {{primaryColor}}; color: #fff; padding: 8px 12px; font-weight: bold; margin-top: 24px; }
  table { width: 100%; border-collapse: collapse; }
  td, th { padding: 6px 8px; border: 1px solid #bbb; text-align: left; }
  td.num { text-align: right; }
  .sig { margin-top: 48px; display: flex; justify-content: space-between; }
  .sig div { width: 45%; border-top: 1px solid #222; padding-top: 4px; }
</style>
</head>
<body>
<table>
  <tr>
    <td style="border:none"><img src="{{companyLogo}}" alt="logo" style="max-height:56px"></td>
    <td style="border:none;text-align:right"><strong>{{companyName}}</strong><br>{{companyAddress}}</td>
  </tr>
</table>

<div class="band">SERVICE ORDER FORM &mdash; {{quoteNumber}}</div>
<table>
  <tr><th>Order date</th><td>{{quoteDate}}</td><th>Valid until</th><td>{{expirationDate}}</td></tr>
  <tr><th>Status</th><td>{{quoteStatus}}</td><th>Contract term</th><td>{{contractTerm}}</td></tr>
</table>

<div class="band">CUSTOMER</div>
<table>
  <tr><th>Company</th><td>{{customerName}}</td><th>Contact</th><td>{{contactName}}</td></tr>
  <tr><th>Email</th><td>{{customerEmail}}</td><th>Phone</th><td>{{customerPhone}}</td></tr>
  <tr><th>Address</th><td colspan="3">{{customerAddress}}, {{customerCity}}, {{customerCountry}}</td></tr>
</table>

<div class="band">SERVICE DETAIL</div>
<table>
  <tr><th>Item</th><th>One-time (MUR)</th><th>Monthly (MUR)</th></tr>
  <tr><td>{{serviceName}} &mdash; {{bandwidth}}</td><td class="num">{{serviceSetupFee}}</td><td class="num">{{bandwidthPrice}}</td></tr>
  {{featuresRows}}
  <tr><th>Total</th><td class="num"><strong>{{totalOneTime}}</strong></td><td class="num"><strong>{{totalMonthly}}</strong></td></tr>
</table>

<div class="band">NOTES</div>
<p>{{notes}}</p>

<div class="sig">
  <div>Customer signature &mdash; {{contactName}}</div>
  <div>For {{companyName}} &mdash; {{companyContact}}</div>
</div>
</body>
</html>`
