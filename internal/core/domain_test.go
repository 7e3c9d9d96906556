package core

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in  string
		out Status
	}{
		{"Paid", StatusPaid},
		{"paid", StatusPaid},
		{" PAID ", StatusPaid},
		{"Pending", StatusPending},
		{"", StatusPending},
		{"whatever", StatusPending},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.out {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusPaid.Toggle() != StatusPending {
		t.Fatal("Paid should toggle to Pending")
	}
	if StatusPending.Toggle() != StatusPaid {
		t.Fatal("Pending should toggle to Paid")
	}
}

func TestInputValidate(t *testing.T) {
	good := Input{Date: "2024-05-01", Category: "Food", Amount: "10,00"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	cases := []struct {
		in  Input
		err error
	}{
		{Input{Category: "Food", Amount: "1"}, ErrMissingDate},
		{Input{Date: "2024-05-01", Amount: "1"}, ErrMissingCategory},
		{Input{Date: "2024-05-01", Category: "Food"}, ErrMissingAmount},
		{Input{Date: " ", Category: "Food", Amount: "1"}, ErrMissingDate},
	}
	for i, tc := range cases {
		if err := tc.in.Validate(); err != tc.err {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.err)
		}
	}
}

func TestInputRequestsRecurrence(t *testing.T) {
	cases := []struct {
		in   Input
		want bool
	}{
		{Input{Category: "Fixo"}, true},
		{Input{Category: "fixo"}, true},
		{Input{Category: " FIXO "}, true},
		{Input{Category: "Food", Recurring: true}, true},
		{Input{Category: "Food"}, false},
	}
	for i, tc := range cases {
		if got := tc.in.RequestsRecurrence(); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestRecordCategoryLabel(t *testing.T) {
	if got := (Record{Category: ""}).CategoryLabel(); got != Uncategorized {
		t.Fatalf("got %q, want sentinel", got)
	}
	if got := (Record{Category: "Food"}).CategoryLabel(); got != "Food" {
		t.Fatalf("got %q, want Food", got)
	}
}
