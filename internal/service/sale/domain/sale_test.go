package domain

import (
	"errors"
	"testing"
)

func TestNewSale_ComputesTotals(t *testing.T) {
	lines := []Line{
		{LineID: "l1", ProductID: "soap", Quantity: 2, UnitPrice: 40, Gross: 80, Discount: 40, Net: 40},
		{LineID: "l2", ProductID: "milk", Quantity: 1, UnitPrice: 12.5, Gross: 12.5, Net: 12.5},
	}
	sale, err := NewSale("s1", "cashier-1", lines, nil, 40, 5)
	if err != nil {
		t.Fatalf("NewSale returned error: %v", err)
	}

	if sale.Subtotal != 92.5 {
		t.Fatalf("subtotal = %v, want 92.5", sale.Subtotal)
	}
	if sale.Total != 47.5 {
		t.Fatalf("total = %v, want 47.5", sale.Total)
	}
	if sale.State != StateDraft {
		t.Fatalf("state = %s, want DRAFT", sale.State)
	}
}

func TestNewSale_RejectsEmptyCart(t *testing.T) {
	_, err := NewSale("s1", "", nil, nil, 0, 0)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	sale, err := NewSale("s1", "", []Line{{LineID: "l1", Gross: 10, Net: 10}}, nil, 0, 0)
	if err != nil {
		t.Fatalf("NewSale returned error: %v", err)
	}

	if err := sale.MarkCompleted(); err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}
	if sale.State != StateCompleted {
		t.Fatalf("state = %s, want COMPLETED", sale.State)
	}
	if err := sale.MarkCompleted(); err == nil {
		t.Fatal("completing twice should fail")
	}
}
