package domain

import (
	"encoding/json"
	"testing"
)

func TestGroupCatalog_GroupsByOperatorThenCategory(t *testing.T) {
	products := []Product{
		{ID: "p1", Operator: "MPT", Category: "data", Name: "1GB", Available: true},
		{ID: "p2", Operator: "MPT", Category: "topup", Name: "1000 Ks", Available: true},
		{ID: "p3", Operator: "Ooredoo", Category: "data", Name: "2GB", Available: true},
		{ID: "p4", Operator: "MPT", Category: "data", Name: "3GB", Available: true},
	}

	got := GroupCatalog(products)

	if len(got) != 2 {
		t.Fatalf("expected 2 operators, got %d", len(got))
	}
	mptData := got["MPT"]["data"]
	if len(mptData) != 2 || mptData[0].ID != "p1" || mptData[1].ID != "p4" {
		t.Fatalf("unexpected MPT/data group: %+v", mptData)
	}
	if len(got["MPT"]["topup"]) != 1 {
		t.Fatalf("expected one MPT/topup product, got %+v", got["MPT"]["topup"])
	}
	if len(got["Ooredoo"]["data"]) != 1 {
		t.Fatalf("expected one Ooredoo/data product, got %+v", got["Ooredoo"]["data"])
	}
}

func TestGroupCatalog_JSONShape(t *testing.T) {
	got := GroupCatalog([]Product{{ID: "p1", Operator: "MPT", Category: "data", Name: "1GB", PriceMMK: 1000, PriceCr: 10, Available: true}})

	b, err := json.Marshal(map[string]any{"products": got})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"products":{"MPT":{"data":[{"id":"p1","operator":"MPT","category":"data","name":"1GB","priceMMK":1000,"priceCr":10,"available":true}]}}}`
	if string(b) != want {
		t.Fatalf("unexpected JSON:\n got %s\nwant %s", b, want)
	}
}

func TestGroupCatalog_Empty(t *testing.T) {
	got := GroupCatalog(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil catalog, got %#v", got)
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderCompleted, true},
		{OrderPending, OrderRejected, true},
		{OrderCompleted, OrderRejected, false},
		{OrderRejected, OrderPending, false},
		{OrderPending, OrderPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
