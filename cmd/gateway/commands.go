package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/add_payment_method"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/process_payment"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/process_refund"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/update_payment_method"
)

type appFunc func() *app

func newProcessPaymentCommand(current appFunc) *cobra.Command {
	var req process_payment.Request
	cmd := &cobra.Command{
		Use:   "process-payment",
		Short: "Charge an account; rerunning with the same --payment-id never charges twice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.PaymentID == "" {
				req.PaymentID = uuid.NewString()
			}
			info, err := current().processPayment.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			printPayment(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.AccountID, "account", "", "host account id")
	cmd.Flags().StringVar(&req.PaymentID, "payment-id", "", "host payment id used as correlation key (generated when empty)")
	cmd.Flags().Int64Var(&req.Amount, "amount-cents", 0, "amount in cents")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount-cents")
	return cmd
}

func newPaymentInfoCommand(current appFunc) *cobra.Command {
	var accountID string
	cmd := &cobra.Command{
		Use:   "payment-info [payment-id]",
		Short: "Show a payment, or every processed payment of --account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if len(args) == 1 {
				info, err := a.paymentInfo.Execute(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printPayment(cmd.OutOrStdout(), info)
				return nil
			}
			if accountID == "" {
				return fmt.Errorf("a payment id or --account is required")
			}
			payments, err := a.paymentInfo.ForAccount(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			for _, p := range payments {
				printPayment(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "list payments of this host account")
	return cmd
}

func newRefundCommand(current appFunc) *cobra.Command {
	var req process_refund.Request
	var list bool
	cmd := &cobra.Command{
		Use:   "refund <payment-id>",
		Short: "Refund a payment, or list its refunds with --list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if list {
				refunds, err := a.refunds.RefundsFor(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, r := range refunds {
					printRefund(cmd.OutOrStdout(), r)
				}
				return nil
			}
			req.PaymentID = args[0]
			refund, err := a.refunds.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			printRefund(cmd.OutOrStdout(), refund)
			return nil
		},
	}
	cmd.Flags().Int64Var(&req.Amount, "amount-cents", 0, "amount to refund in cents")
	cmd.Flags().BoolVar(&list, "list", false, "list existing refunds instead")
	return cmd
}

func newCreateAccountCommand(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "create-account <account-id>",
		Short: "Find or create the remote account of a host account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := current().createAccount.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), account)
			return nil
		},
	}
}

func newUpdateContactCommand(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "update-contact <account-id>",
		Short: "Copy the host account's contact details to the remote bill-to contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := current().updateContact.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), account)
			return nil
		},
	}
}

func newPaymentMethodsCommand(current appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment-methods",
		Short: "Manage payment methods",
	}

	list := &cobra.Command{
		Use:  "list <account-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			methods, err := current().listPaymentMethods.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, pm := range methods {
				printPaymentMethod(cmd.OutOrStdout(), pm)
			}
			return nil
		},
	}

	var addReq add_payment_method.Request
	addInfo := &domain.PaymentMethodInfo{}
	add := &cobra.Command{
		Use:  "add <account-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addReq.AccountID = args[0]
			addReq.Info = addInfo
			if addReq.PaymentMethodID == "" {
				addReq.PaymentMethodID = uuid.NewString()
			}
			pm, err := current().addPaymentMethod.Execute(cmd.Context(), addReq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payment method %s -> ", addReq.PaymentMethodID)
			printPaymentMethod(cmd.OutOrStdout(), pm)
			return nil
		},
	}
	add.Flags().StringVar(&addReq.PaymentMethodID, "id", "", "host payment method id (generated when empty)")
	add.Flags().BoolVar(&addReq.SetDefault, "default", false, "make it the account default")
	bindMethodFlags(add, addInfo)

	setDefault := &cobra.Command{
		Use:  "set-default <payment-method-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().setDefault.Execute(cmd.Context(), args[0])
		},
	}

	remove := &cobra.Command{
		Use:  "delete <payment-method-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().deletePaymentMethod.Execute(cmd.Context(), args[0])
		},
	}

	updateInfo := &domain.PaymentMethodInfo{}
	update := &cobra.Command{
		Use:   "update <payment-method-id>",
		Short: "Rewrite a credit card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := current().updatePaymentMethod.Execute(cmd.Context(), update_payment_method.Request{
				PaymentMethodID: args[0],
				Info:            updateInfo,
			})
			if err != nil {
				return err
			}
			printPaymentMethod(cmd.OutOrStdout(), pm)
			return nil
		},
	}
	bindMethodFlags(update, updateInfo)

	cmd.AddCommand(list, add, setDefault, remove, update)
	return cmd
}

func bindMethodFlags(cmd *cobra.Command, info *domain.PaymentMethodInfo) {
	f := cmd.Flags()
	f.StringVar(&info.Type, "type", domain.PaymentMethodCreditCard, "CreditCard or PayPal")
	f.StringVar(&info.CardType, "card-type", "", "credit card brand")
	f.StringVar(&info.MaskNumber, "card-number", "", "credit card number")
	f.StringVar(&info.HolderName, "holder", "", "card holder name")
	f.IntVar(&info.ExpMonth, "exp-month", 0, "expiration month")
	f.IntVar(&info.ExpYear, "exp-year", 0, "expiration year")
	f.StringVar(&info.Address1, "address1", "", "billing address line 1")
	f.StringVar(&info.Address2, "address2", "", "billing address line 2")
	f.StringVar(&info.City, "city", "", "billing city")
	f.StringVar(&info.State, "state", "", "billing state or province")
	f.StringVar(&info.PostalCode, "postal-code", "", "billing postal code")
	f.StringVar(&info.Country, "country", "", "billing country")
	f.StringVar(&info.PaypalBaid, "paypal-baid", "", "PayPal billing agreement id")
	f.StringVar(&info.PaypalEmail, "paypal-email", "", "PayPal account email")
}

func newInvoicesCommand(current appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Read invoices",
	}

	var from, to string
	list := &cobra.Command{
		Use:  "list <account-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromDate, err := parseDate(from)
			if err != nil {
				return err
			}
			toDate, err := parseDate(to)
			if err != nil {
				return err
			}
			found, err := current().invoices.Execute(cmd.Context(), args[0], fromDate, toDate)
			if err != nil {
				return err
			}
			for _, inv := range found {
				printInvoice(cmd.OutOrStdout(), inv)
			}
			return nil
		},
	}
	list.Flags().StringVar(&from, "from", "", "first target date (YYYY-MM-DD)")
	list.Flags().StringVar(&to, "to", "", "last target date (YYYY-MM-DD)")

	content := &cobra.Command{
		Use:  "content <account-id> <invoice-number>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := current().invoices.Content(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printInvoice(cmd.OutOrStdout(), inv)
			fmt.Fprintln(cmd.OutOrStdout(), inv.Body)
			return nil
		},
	}

	lastPayment := &cobra.Command{
		Use:  "last-payment <invoice-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := current().invoices.LastPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPayment(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.AddCommand(list, content, lastPayment)
	return cmd
}

func newSubscriptionsCommand(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions <account-id>",
		Short: "List the remote subscriptions of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := current().invoices.Subscriptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range subs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s key %s, effective %s\n",
					s.ID, s.Name, s.Status, s.CorrelationKey, formatWhen(s.ContractEffectiveDate))
			}
			return nil
		},
	}
}

func newPoolStatsCommand(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "pool-stats",
		Short: "Log in the configured minimum of idle connections and show the pool state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printStats(cmd.OutOrStdout(), current().pool.Stats())
			return nil
		},
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}
