package controllers

import (
	"fmt"
	"html/template"
	"strings"

	"law-office-api/models"
	"law-office-api/utils"
)

type emailMetaItem struct {
	Label string
	Value string
}

// emailContent is everything buildEmailTemplate lays out. FooterHTML is trusted markup.
type emailContent struct {
	Subject      string
	Paragraphs   []string
	Meta         []emailMetaItem
	ButtonText   string
	ButtonURL    string
	Preformatted string
	FooterHTML   string
}

// buildContractEmail wraps the contract text in a minimal HTML message; the full
// text also travels as a .txt attachment.
func buildContractEmail(contract *models.Contract) string {
	meta := []emailMetaItem{
		{Label: "Contrato", Value: utils.ValueOr(contract.Title, contract.Code)},
		{Label: "Código", Value: contract.Code},
		{Label: "Comarca", Value: contract.Jurisdiction},
	}
	if contract.Value.Valid {
		meta = append(meta, emailMetaItem{Label: "Valor", Value: utils.FormatBRL(contract.Value.Decimal)})
	}

	return buildEmailTemplate(emailContent{
		Subject: "Minuta de contrato",
		Paragraphs: []string{
			"Prezado(a) cliente,",
			"Segue a minuta do contrato para sua revisão. O documento completo está anexo e reproduzido abaixo.",
		},
		Meta:         meta,
		Preformatted: contract.Content,
	})
}

func buildEmailTemplate(email emailContent) string {
	var content strings.Builder
	for _, paragraph := range email.Paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := template.HTMLEscapeString(trimmed)
		escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\n", "<br />")
		content.WriteString(`<p style="margin:0 0 18px 0;line-height:1.7;word-break:break-word;">`)
		content.WriteString(escaped)
		content.WriteString(`</p>`)
	}

	metaSection := ""
	rows := make([]emailMetaItem, 0, len(email.Meta))
	for _, item := range email.Meta {
		label := strings.TrimSpace(item.Label)
		value := strings.TrimSpace(item.Value)
		if label == "" || value == "" {
			continue
		}
		rows = append(rows, emailMetaItem{Label: label, Value: value})
	}
	if len(rows) > 0 {
		var meta strings.Builder
		meta.WriteString(`<div style="margin:0 0 24px 0;">
<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;">
<tbody>`)
		for i, row := range rows {
			border := "border-bottom:1px solid #e5e7eb;"
			if i == len(rows)-1 {
				border = ""
			}
			meta.WriteString(fmt.Sprintf(`<tr>
<td style="padding:12px 16px;font-size:13px;color:#6b7280;width:38%%;%s">%s</td>
<td style="padding:12px 16px;font-size:15px;color:#111827;font-weight:600;%s">%s</td>
</tr>
`, border, template.HTMLEscapeString(row.Label), border, template.HTMLEscapeString(row.Value)))
		}
		meta.WriteString(`</tbody>
</table>
</div>`)
		metaSection = meta.String()
	}

	buttonSection := ""
	if strings.TrimSpace(email.ButtonText) != "" && strings.TrimSpace(email.ButtonURL) != "" {
		buttonSection = fmt.Sprintf(`<div style="text-align:center;margin:12px 0 24px 0;">
<a href="%s" style="display:inline-block;padding:12px 28px;background-color:#1e3a5f;color:#ffffff;text-decoration:none;border-radius:999px;font-weight:600;">%s</a>
</div>`, template.HTMLEscapeString(email.ButtonURL), template.HTMLEscapeString(email.ButtonText))
	}

	preSection := ""
	if strings.TrimSpace(email.Preformatted) != "" {
		preSection = fmt.Sprintf(`<pre style="white-space:pre-wrap;font-family:'Courier New',monospace;font-size:13px;line-height:1.5;border-top:1px solid #e5e7eb;padding-top:18px;">%s</pre>`,
			template.HTMLEscapeString(email.Preformatted))
	}

	footerSection := ""
	if strings.TrimSpace(email.FooterHTML) != "" {
		footerSection = fmt.Sprintf(`<div style="color:#6b7280;font-size:13px;line-height:1.7;">%s</div>`, email.FooterHTML)
	}

	subject := template.HTMLEscapeString(email.Subject)
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:Arial,Helvetica,sans-serif;">
<div style="max-width:720px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
<div style="text-align:center;">
%s
<h1 style="margin:18px 0 0 0;font-size:22px;font-weight:700;color:#111827;line-height:1.35;">%s</h1>
</div>
<div style="margin-top:20px;color:#1f2937;font-size:16px;line-height:1.75;">
%s
</div>
%s
%s
%s
%s
</div>
</div>
</body>
</html>`, subject, firmLogoHTML(), subject, content.String(), metaSection, buttonSection, preSection, footerSection)
}
