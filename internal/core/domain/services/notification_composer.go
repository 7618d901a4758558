package services

import (
	"strings"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/notification"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/settings"
)

// statusTemplates holds one body per notifiable status. Placeholders are replaced verbatim:
// {greeting}, {number}, {label}, {store}. Pending has no template: checkout already told the
// customer the order was received.
//
//nolint:exhaustive // Pending and Unknown are not notifiable
var statusTemplates = map[order.Status]string{
	order.Confirmed: "{greeting} Seu pedido #{number} na {store} foi atualizado para: *{label}*. " +
		"Já estamos cuidando de tudo.",
	order.Preparing: "{greeting} Seu pedido #{number} na {store} foi atualizado para: *{label}*. " +
		"Estamos separando seus produtos.",
	order.OutForDelivery: "{greeting} Seu pedido #{number} na {store} foi atualizado para: *{label}*. " +
		"Fique atento, ele chega em breve!",
	order.Delivered: "{greeting} Seu pedido #{number} na {store} foi atualizado para: *{label}*. " +
		"Obrigado pela preferência!",
	order.Cancelled: "{greeting} Seu pedido #{number} na {store} foi atualizado para: *{label}*. " +
		"Se tiver dúvidas, é só responder esta mensagem.",
}

// NotificationComposer builds the status-update message staff relay to the customer in
// manual-notify mode. Composition is deterministic: the same order, status and profile always
// produce the same message.
//
// Example:
//
//	composer := services.NewNotificationComposer()
//	msg, ok := composer.Compose(o, order.Confirmed, profile)
//	if ok {
//	    handoff := msg.Handoff() // https://wa.me/5511987654321?text=...
//	}
type NotificationComposer struct{}

func NewNotificationComposer() NotificationComposer {
	return NotificationComposer{}
}

// Compose returns the message for o entering newStatus, or false when newStatus has no
// template or no destination can be resolved from the order phone or the store default.
func (NotificationComposer) Compose(
	o *order.Order,
	newStatus order.Status,
	profile settings.StoreProfile,
) (notification.Message, bool) {
	if o.Validate() != nil {
		return notification.Message{}, false
	}

	template, ok := statusTemplates[newStatus]
	if !ok {
		return notification.Message{}, false
	}

	address, ok := resolveAddress(o.Customer(), profile)
	if !ok {
		return notification.Message{}, false
	}

	body := strings.NewReplacer(
		"{greeting}", greeting(o.Customer()),
		"{number}", o.Number(),
		"{label}", newStatus.Label(),
		"{store}", storeName(profile),
	).Replace(template)

	msg, err := notification.NewMessage(address, body)
	if err != nil {
		return notification.Message{}, false
	}
	return msg, true
}

func resolveAddress(c order.Customer, profile settings.StoreProfile) (kernel.PhoneNumber, bool) {
	if phone, ok := c.ContactPhone(); ok {
		return phone, true
	}
	return profile.DefaultContact()
}

func greeting(c order.Customer) string {
	if name := c.FirstName(); name != "" {
		return "Olá, " + name + "!"
	}
	return "Olá!"
}

func storeName(profile settings.StoreProfile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	return "farmácia"
}
