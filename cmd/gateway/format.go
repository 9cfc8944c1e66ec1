package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// formatCents renders an amount in cents as 1,234.50.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.UTC().Format(time.RFC3339), humanize.Time(t))
}

func printPayment(w io.Writer, p *domain.PaymentInfo) {
	fmt.Fprintf(w, "payment %s\n", p.PaymentID)
	fmt.Fprintf(w, "  correlation key  %s\n", p.CorrelationKey)
	fmt.Fprintf(w, "  amount           %s\n", formatCents(p.Amount))
	fmt.Fprintf(w, "  applied          %s\n", formatCents(p.AppliedAmount))
	fmt.Fprintf(w, "  status           %s\n", p.Status)
	fmt.Fprintf(w, "  invoice          %s\n", p.InvoiceID)
	fmt.Fprintf(w, "  gateway response %s\n", p.GatewayResponse)
	fmt.Fprintf(w, "  created          %s\n", formatWhen(p.CreatedDate))
}

func printRefund(w io.Writer, r *domain.RefundInfo) {
	fmt.Fprintf(w, "refund %s of payment %s: %s %s, %s\n", r.RefundID, r.PaymentID, formatCents(r.Amount), r.Status, formatWhen(r.RefundDate))
}

func printAccount(w io.Writer, a *domain.Account) {
	fmt.Fprintf(w, "account %s (%s) %s, currency %s, bill cycle day %d, gateway %q\n",
		a.Name, a.ID, a.Status, a.Currency, a.BillCycleDay, a.PaymentGateway)
}

func printPaymentMethod(w io.Writer, pm *domain.PaymentMethodInfo) {
	marker := " "
	if pm.IsDefault {
		marker = "*"
	}
	detail := pm.PaypalEmail
	if pm.Type == domain.PaymentMethodCreditCard {
		detail = fmt.Sprintf("%s %s exp %02d/%d", pm.CardType, pm.MaskNumber, pm.ExpMonth, pm.ExpYear)
	}
	fmt.Fprintf(w, "%s %s %-10s %s, created %s\n", marker, pm.RemoteID, pm.Type, detail, formatWhen(pm.CreatedDate))
}

func printInvoice(w io.Writer, inv *domain.Invoice) {
	fmt.Fprintf(w, "%s %s %s amount %s balance %s target %s\n",
		inv.InvoiceNumber, inv.ID, inv.Status, formatCents(inv.Amount), formatCents(inv.Balance), inv.TargetDate.Format(time.DateOnly))
}

func printStats(w io.Writer, s pool.Stats) {
	fmt.Fprintf(w, "active    %s / %s\n", humanize.Comma(int64(s.Active)), humanize.Comma(int64(s.MaxActive)))
	fmt.Fprintf(w, "idle      %s (min %d, max %d)\n", humanize.Comma(int64(s.Idle)), s.MinIdle, s.MaxIdle)
	fmt.Fprintf(w, "created   %s\n", humanize.Comma(s.Created))
	fmt.Fprintf(w, "destroyed %s\n", humanize.Comma(s.Destroyed))
}
