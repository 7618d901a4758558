// Package notification models the customer message produced after a status change and the
// compose-action link that hands it to the external chat channel.
package notification

import (
	"errors"
	"net/url"
	"strings"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/pkg/errs"
)

// HandoffBaseURL is the chat channel's compose-action endpoint.
const HandoffBaseURL = "https://wa.me/"

var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Message is a ready-to-send status update. Delivery is not tracked.
type Message struct {
	address kernel.PhoneNumber
	body    string

	isConstructed bool
}

// NewMessage pairs a destination with the message text.
func NewMessage(address kernel.PhoneNumber, body string) (Message, error) {
	if err := address.Validate(); err != nil {
		return Message{}, err
	}
	if strings.TrimSpace(body) == "" {
		return Message{}, errs.NewValueIsRequiredError("message body")
	}
	return Message{address: address, body: body, isConstructed: true}, nil
}

func (m Message) Address() kernel.PhoneNumber { return m.address }
func (m Message) Body() string                { return m.body }

func (m Message) Validate() error {
	if !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// Handoff builds the compose-action link for m:
//
//	https://wa.me/5511987654321?text=Ol%C3%A1%20Ana%21...
//
// Spaces are encoded as %20 rather than "+".
func (m Message) Handoff() Handoff {
	text := strings.ReplaceAll(url.QueryEscape(m.body), "+", "%20")
	return Handoff{URL: HandoffBaseURL + m.address.Digits() + "?text=" + text}
}

// Handoff is the action surfaced to staff: opening URL prefills the message in the channel.
type Handoff struct {
	URL string `json:"url"`
}
