package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:            "order-1",
		CustomerName:  "Jane Roe",
		CustomerEmail: "jane@example.com",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		TotalMinor:    500,
		Lines: []domain.OrderLine{
			{
				ID:         "line-1",
				OrderID:    "order-1",
				ProductID:  "product-1",
				Qty:        5,
				PriceMinor: 100,
				CreatedAt:  now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no customer name",
			mut:  func(o *domain.Order) { o.CustomerName = "" },
			want: domain.ErrCustomerNameRequired,
		},
		{
			name: "no customer email",
			mut:  func(o *domain.Order) { o.CustomerEmail = "" },
			want: domain.ErrCustomerEmailRequired,
		},
		{
			name: "no lines",
			mut: func(o *domain.Order) {
				o.Lines = nil
				o.TotalMinor = 1
			},
			want: domain.ErrOrderLinesRequired,
		},
		{
			name: "bad status",
			mut:  func(o *domain.Order) { o.Status = "canceled" },
			want: domain.ErrOrderStatusInvalid,
		},
		{
			name: "bad payment status",
			mut:  func(o *domain.Order) { o.PaymentStatus = "refunded" },
			want: domain.ErrPaymentStatusInvalid,
		},
		{
			name: "zero qty line",
			mut:  func(o *domain.Order) { o.Lines[0].Qty = 0 },
			want: domain.ErrLineQtyInvalid,
		},
		{
			name: "total mismatch",
			mut:  func(o *domain.Order) { o.TotalMinor = 499 },
			want: domain.ErrTotalMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatalf("expected validation errors, got none")
			}
			found := false
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v among %v", tc.want, errs)
			}
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		if !s.Valid() {
			t.Fatalf("status %q must be valid", s)
		}
	}
	if domain.OrderStatus("canceled").Valid() {
		t.Fatal("unknown status must be invalid")
	}
}

func TestPaymentStatus_Valid(t *testing.T) {
	if !domain.PaymentStatusUnpaid.Valid() || !domain.PaymentStatusPaid.Valid() {
		t.Fatal("known payment statuses must be valid")
	}
	if domain.PaymentStatus("pending").Valid() {
		t.Fatal("unknown payment status must be invalid")
	}
}

func TestLineRequest_Validate(t *testing.T) {
	if errs := (domain.LineRequest{ProductID: "p-1", Qty: 1}).Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := (domain.LineRequest{ProductID: "", Qty: 0}).Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}

func TestIsRetryable(t *testing.T) {
	if !domain.IsRetryable(domain.ErrLockTimeout) {
		t.Fatal("lock timeout must be retryable")
	}
	for _, err := range []error{domain.ErrOutOfStock, domain.ErrProductNotFound, domain.ErrPersistence} {
		if domain.IsRetryable(err) {
			t.Fatalf("%v must not be retryable", err)
		}
	}
}
