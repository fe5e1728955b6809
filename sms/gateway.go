// path: sms/gateway.go
package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"parkwatch/mailer"
)

// ErrUnknownCarrier rejects a send before anything reaches the gateway.
var ErrUnknownCarrier = errors.New("carrier not supported")

// Gateway delivers texts through carrier email-to-SMS gateways, riding the
// same email sender the alert pipeline uses.
type Gateway struct {
	sender mailer.Sender
	log    *zap.Logger
}

func NewGateway(sender mailer.Sender, log *zap.Logger) *Gateway {
	return &Gateway{sender: sender, log: log}
}

// Send texts one number. With a carrier key only that carrier's gateway is
// used; without one, every provider gateway for the region is tried. The send
// succeeds when at least one gateway accepts the message.
func (g *Gateway) Send(ctx context.Context, number, message, carrierKey, region string) error {
	var templates []string
	if carrierKey != "" {
		key := strings.ToLower(carrierKey)
		tpls, ok := carriers[key]
		if !ok {
			return fmt.Errorf("%q: %w", carrierKey, ErrUnknownCarrier)
		}
		templates = tpls
	} else {
		templates = providers[strings.ToLower(region)]
		if len(templates) == 0 {
			return fmt.Errorf("region %q: %w", region, ErrUnknownCarrier)
		}
	}

	// vtext drops messages containing a bare colon; a leading space avoids it.
	if strings.Contains(message, ":") {
		message = " " + message
	}

	var lastErr error
	delivered := 0
	for _, tpl := range templates {
		addr := fmt.Sprintf(tpl, number)
		if err := g.sender.Send(ctx, mailer.Message{To: addr, Text: message}); err != nil {
			lastErr = err
			g.log.Warn("sms: gateway send failed", zap.String("gateway", addr), zap.Error(err))
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("sms: all gateways failed: %w", lastErr)
	}
	return nil
}
