package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger { return zap.NewNop() }

func TestBuildInvitationEmail(t *testing.T) {
	e := BuildInvitationEmail(InvitationEmailData{
		SiteName:    "MenuCasa",
		CasaName:    "Casa Azul",
		InviterName: "Ana",
		AcceptLink:  "https://menucasa.example/invite?token=abc",
		ExpiresIn:   "7 days",
	})

	if !strings.Contains(e.Subject, "Casa Azul") {
		t.Errorf("subject missing casa name: %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "https://menucasa.example/invite?token=abc") {
		t.Error("text body missing accept link")
	}
	if !strings.Contains(e.HTMLBody, "Casa Azul") || !strings.Contains(e.HTMLBody, "Ana") {
		t.Error("html body missing invitation details")
	}
	if !strings.Contains(e.TextBody, "7 days") {
		t.Error("text body missing expiry")
	}
}

func TestBuildInvitationEmailEscapesHTML(t *testing.T) {
	e := BuildInvitationEmail(InvitationEmailData{
		SiteName:    "MenuCasa",
		CasaName:    `<script>alert("x")</script>`,
		InviterName: "Ana",
		AcceptLink:  "https://menucasa.example/invite",
		ExpiresIn:   "7 days",
	})
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("html body contains unescaped markup")
	}
}

func TestBuildWeeklyMenuEmail(t *testing.T) {
	e := BuildWeeklyMenuEmail(WeeklyMenuEmailData{
		SiteName: "MenuCasa",
		UserName: "Ana",
		WeekOf:   "January 6, 2025",
		Days: []WeeklyMenuDay{
			{Day: "Monday", Lunch: "Pasta al pesto", Dinner: "Pollo asado"},
			{Day: "Tuesday", Lunch: "", Dinner: "Lentejas"},
		},
		Ingredients: []string{"pasta", "pollo", "lentejas"},
	})

	if !strings.Contains(e.Subject, "January 6, 2025") {
		t.Errorf("subject missing week: %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "Pasta al pesto") || !strings.Contains(e.TextBody, "Lentejas") {
		t.Error("text body missing meals")
	}
	// Empty slots render as a dash, not an empty cell.
	if !strings.Contains(e.TextBody, "Lunch:  -") {
		t.Error("text body should dash out empty lunch")
	}
	if !strings.Contains(e.HTMLBody, "Shopping list") || !strings.Contains(e.HTMLBody, "lentejas") {
		t.Error("html body missing shopping list")
	}
}

func TestMailerDisabledDropsQuietly(t *testing.T) {
	m := New("", 0, "", "", "noreply@menucasa.example", testLogger())
	if m.Enabled() {
		t.Fatal("mailer with empty host should be disabled")
	}
	if err := m.Send(Email{To: "a@b.c", Subject: "s", TextBody: "t"}); err != nil {
		t.Errorf("disabled Send returned error: %v", err)
	}
}

func TestAssembleMultipart(t *testing.T) {
	m := New("smtp.example.com", 587, "u", "p", "noreply@menucasa.example", testLogger())
	msg := string(m.assemble(Email{
		To:       "ana@example.com",
		Subject:  "Menu semanal",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
	}))

	if !strings.Contains(msg, "multipart/alternative") {
		t.Error("message is not multipart/alternative")
	}
	if !strings.Contains(msg, "plain") || !strings.Contains(msg, "<p>html</p>") {
		t.Error("message missing a body part")
	}
	if !strings.Contains(msg, "To: ana@example.com") {
		t.Error("message missing To header")
	}
}
