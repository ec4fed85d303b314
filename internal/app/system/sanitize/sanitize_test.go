package sanitize_test

import (
	"reflect"
	"testing"

	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
)

func TestPlain_Empty(t *testing.T) {
	if got := sanitize.Plain(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlain_PlainText(t *testing.T) {
	if got := sanitize.Plain("Pollo al horno"); got != "Pollo al horno" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestPlain_RemovesScript(t *testing.T) {
	got := sanitize.Plain(`Casa<script>alert('x')</script> Azul`)
	if got != "Casa Azul" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestPlain_RemovesTagsKeepsText(t *testing.T) {
	got := sanitize.Plain("<b>Pasta</b> con <i>tomate</i>")
	if got != "Pasta con tomate" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlain_TrimsWhitespace(t *testing.T) {
	if got := sanitize.Plain("  arroz  "); got != "arroz" {
		t.Errorf("expected trimmed, got %q", got)
	}
}

func TestPlainAll_DropsEmptied(t *testing.T) {
	in := []string{"pollo", "<script>x</script>", "  ", "sal"}
	want := []string{"pollo", "sal"}
	if got := sanitize.PlainAll(in); !reflect.DeepEqual(got, want) {
		t.Errorf("PlainAll(%v) = %v, want %v", in, got, want)
	}
}
