package components

import (
	"strings"
	"testing"
)

func TestPaletteSubmitAndFilter(t *testing.T) {
	p := NewPalette()
	p.Open()
	for _, r := range "sess" {
		p, _ = p.Update(key(string(r)))
	}
	view := p.View()
	if !strings.Contains(view, "session:pause") || strings.Contains(view, "analytics:refresh") {
		t.Fatalf("expected session hints only:\n%s", view)
	}
	p, cmd := p.Update(key("enter"))
	if p.Visible() || cmd == nil {
		t.Fatalf("expected palette closed with submit cmd")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "sess" {
		t.Fatalf("unexpected submit msg %#v", msg)
	}
}
