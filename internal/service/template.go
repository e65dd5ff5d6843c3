package service

import (
	"strings"

	"zapdispatch/internal/models"
)

// DefaultDueDateTemplate is used when a tenant has not configured one.
const DefaultDueDateTemplate = "Olá {cliente}, sua assinatura {assinatura} no valor de {valor} venceu em {vencimento}."

// RenderDueDateNotice substitutes the named placeholders of a billing notice
// template with the client's data. This is literal substring replacement, not
// a templating language; unknown placeholders pass through untouched.
func RenderDueDateNotice(template string, client *models.Client) string {
	if template == "" {
		template = DefaultDueDateTemplate
	}

	replacer := strings.NewReplacer(
		"{cliente}", client.Name,
		"{telefone}", client.Phone,
		"{email}", client.Email,
		"{assinatura}", client.Subscription,
		"{vencimento}", client.DueDate.Format(models.DueDateFormat),
		"{valor}", client.Amount,
		"{status}", string(client.Status),
	)

	return replacer.Replace(template)
}
