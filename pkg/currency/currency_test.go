package currency

import "testing"

func TestFormatGroupsThousands(t *testing.T) {
	f := NewFormatter("es-AR")

	if got := f.Format(50000); got != "50.000" {
		t.Fatalf("expected 50.000, got %q", got)
	}
	if got := f.Format(999); got != "999" {
		t.Fatalf("expected 999, got %q", got)
	}
}

func TestFormatPriceAddsPesoSign(t *testing.T) {
	f := NewFormatter("es-AR")

	if got := f.FormatPrice(2500); got != "$2.500" {
		t.Fatalf("expected $2.500, got %q", got)
	}
}

func TestNewFormatterFallsBackOnBadLocale(t *testing.T) {
	f := NewFormatter("not a locale")

	if got := f.Format(1000); got != "1.000" {
		t.Fatalf("expected es-AR fallback grouping, got %q", got)
	}
}
