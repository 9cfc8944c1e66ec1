package contracts

// Query names understood by every QueryBuilder
const (
	QueryAccountByName                 = "getAccountByAccountName"
	QueryAccountByID                   = "getAccountById"
	QueryPaymentByID                   = "getPaymentFromId"
	QueryProcessedPaymentsForAccount   = "getProcessedPaymentsForAccount"
	QueryInvoicePaymentsForInvoice     = "getInvoicePaymentsForInvoice"
	QueryInvoicePaymentsForPayment     = "getInvoicePayments"
	QueryRefundByID                    = "getRefundFromId"
	QueryRefundsForPayment             = "getRefundsForPayment"
	QuerySubscriptionByCorrelationKey  = "getSubscriptionByCorrelationKey"
	QueryInvoiceByCorrelationKey       = "getInvoiceByCorrelationKey"
	QueryRatePlanCharge                = "getRatePlanCharge"
	QueryPaymentMethods                = "getPaymentMethods"
	QueryPaymentMethod                 = "getPaymentMethod"
	QuerySubscriptionsForAccount       = "getSubscriptionsForAccount"
	QueryPostedInvoicesForAccount      = "getPostedInvoicesForAccount"
	QueryPostedInvoicesForAccountTo    = "getPostedInvoicesForAccountTo"
	QueryPostedInvoicesForAccountRange = "getPostedInvoicesForAccountFromTo"
	QueryInvoiceContent                = "getInvoiceContent"
)

// QueryBuilder renders a named query with its parameters
type QueryBuilder interface {
	Build(name string, params map[string]any) (string, error)
}
