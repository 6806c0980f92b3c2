package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tpv/internal/infra"
	"tpv/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TicketJobPayload is the payload for a receipt job.
type TicketJobPayload struct {
	VentaID uint `json:"venta_id"`
}

type ventaFinder interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error)
}

type ticketSender interface {
	EnviarTicket(to, subject, body, pdfPath string) error
}

// TicketWorker renders the PDF receipt of a sale and mails it to the
// customer's contact address.
type TicketWorker struct {
	ventas      ventaFinder
	mailer      ticketSender
	cb          *infra.CircuitBreaker
	negocio     string
	storagePath string
	maxAttempts int
}

func NewTicketWorker(ventas ventaFinder, mailer ticketSender, cb *infra.CircuitBreaker, negocio, storagePath string) *TicketWorker {
	return &TicketWorker{
		ventas:      ventas,
		mailer:      mailer,
		cb:          cb,
		negocio:     negocio,
		storagePath: storagePath,
		maxAttempts: 3,
	}
}

func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("ticket_worker: invalid payload: %w", err)
	}

	venta, err := w.ventas.FindByID(ctx, nil, payload.VentaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Sale deleted after enqueue.
		log.Warn().Uint("venta_id", payload.VentaID).Msg("ticket_worker: venta no encontrada, job descartado")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ticket_worker: load venta %d: %w", payload.VentaID, err)
	}

	to := destinatario(venta)
	if to == "" {
		log.Debug().Uint("venta_id", venta.ID).Msg("ticket_worker: venta sin email de cliente")
		return nil
	}

	pdfPath, err := infra.GenerarTicketPDF(venta, w.negocio, w.storagePath)
	if err != nil {
		return fmt.Errorf("ticket_worker: pdf venta %d: %w", venta.ID, err)
	}

	subject := fmt.Sprintf("%s - Ticket #%d", w.negocio, venta.ID)
	body := fmt.Sprintf("Adjuntamos el ticket de su compra por un total de %s.", venta.Total.StringFixed(2))

	err = withRetry(ctx, w.maxAttempts, func(attempt int) error {
		send := func() error { return w.mailer.EnviarTicket(to, subject, body, pdfPath) }
		if w.cb != nil {
			return w.cb.Execute(send)
		}
		return send()
	})
	if err != nil {
		return fmt.Errorf("ticket_worker: envio venta %d: %w", venta.ID, err)
	}

	log.Info().Uint("venta_id", venta.ID).Str("to", to).Msg("ticket_worker: ticket enviado")
	return nil
}

func destinatario(v *model.Venta) string {
	if v.Cliente == nil || v.Cliente.EmailContacto == nil {
		return ""
	}
	return *v.Cliente.EmailContacto
}
