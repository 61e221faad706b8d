package view

import (
	"strings"
	"testing"
)

func TestMoney(t *testing.T) {
	money := Funcs("en")["money"].(func(int64) string)
	cases := map[int64]string{4999: "$49.99", 0: "$0.00", 5: "$0.05", 123456: "$1234.56", -150: "-$1.50"}
	for in, want := range cases {
		if got := money(in); got != want {
			t.Fatalf("money(%d) = %s want %s", in, got, want)
		}
	}
}

func TestRenderListTranslatesPerLanguage(t *testing.T) {
	en, err := RenderBytes("en", "invoices.html", map[string]any{"Title": "Invoices"})
	if err != nil {
		t.Fatalf("render en: %v", err)
	}
	if !strings.Contains(string(en), "No invoices yet.") {
		t.Fatalf("expected english empty state: %s", en)
	}
	fr, err := RenderBytes("fr", "invoices.html", nil)
	if err != nil {
		t.Fatalf("render fr: %v", err)
	}
	if !strings.Contains(string(fr), "Aucune facture") || !strings.Contains(string(fr), `lang="fr"`) {
		t.Fatalf("expected french page: %s", fr)
	}
}

func TestRenderFormWithErrors(t *testing.T) {
	type state struct {
		Errors  map[string][]string
		Message string
	}
	page, err := RenderBytes("en", "invoice_form.html", map[string]any{
		"Action": "/dashboard/invoices",
		"Values": map[string]string{"amount": "0"},
		"State":  state{Errors: map[string][]string{"amount": {"Please enter an amount greater than $0"}}, Message: "Missing Fields."},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := string(page)
	for _, want := range []string{"Please enter an amount greater than $0", "Missing Fields.", `action="/dashboard/invoices"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in %s", want, body)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := RenderBytes("en", "nope.html", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}
