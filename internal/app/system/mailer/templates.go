// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// InvitationEmailData holds data for household invitation emails.
type InvitationEmailData struct {
	SiteName    string
	CasaName    string
	InviterName string
	AcceptLink  string
	ExpiresIn   string // e.g., "7 days"
}

// BuildInvitationEmail creates an invitation email with both HTML and text bodies.
func BuildInvitationEmail(data InvitationEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("You have been invited to %s on %s", data.CasaName, data.SiteName),
		TextBody: buildInvitationText(data),
		HTMLBody: buildInvitationHTML(data),
	}
}

func buildInvitationText(data InvitationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s invited you to join the household %q on %s.\n\n",
		data.InviterName, data.CasaName, data.SiteName))
	buf.WriteString("Open this link to accept the invitation:\n")
	buf.WriteString(data.AcceptLink + "\n\n")
	buf.WriteString(fmt.Sprintf("The invitation expires in %s and can be used once.\n\n", data.ExpiresIn))
	buf.WriteString("If you were not expecting this invitation, you can safely ignore this email.\n")
	return buf.String()
}

func buildInvitationHTML(data InvitationEmailData) string {
	tmpl := template.Must(template.New("invitation").Parse(invitationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const invitationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Household Invitation</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #16a34a;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                <strong>{{.InviterName}}</strong> invited you to join the household <strong>{{.CasaName}}</strong>.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.AcceptLink}}" style="display: inline-block; padding: 14px 32px; background-color: #16a34a; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Accept Invitation
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                This invitation expires in {{.ExpiresIn}} and can be used once.
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you were not expecting this invitation, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// WeeklyMenuDay is one row in the weekly menu summary email.
type WeeklyMenuDay struct {
	Day    string
	Lunch  string
	Dinner string
}

// WeeklyMenuEmailData holds data for the "menu saved" summary email.
type WeeklyMenuEmailData struct {
	SiteName    string
	UserName    string
	WeekOf      string // e.g., "January 6, 2025"
	Days        []WeeklyMenuDay
	Ingredients []string
}

// BuildWeeklyMenuEmail creates the weekly menu summary email sent after a plan is saved.
func BuildWeeklyMenuEmail(data WeeklyMenuEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Your %s menu for the week of %s", data.SiteName, data.WeekOf),
		TextBody: buildWeeklyMenuText(data),
		HTMLBody: buildWeeklyMenuHTML(data),
	}
}

func buildWeeklyMenuText(data WeeklyMenuEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\nHere is your menu for the week of %s:\n\n", data.UserName, data.WeekOf))
	for _, d := range data.Days {
		lunch := d.Lunch
		if lunch == "" {
			lunch = "-"
		}
		dinner := d.Dinner
		if dinner == "" {
			dinner = "-"
		}
		buf.WriteString(fmt.Sprintf("%s\n  Lunch:  %s\n  Dinner: %s\n", d.Day, lunch, dinner))
	}
	if len(data.Ingredients) > 0 {
		buf.WriteString("\nShopping list:\n")
		for _, ing := range data.Ingredients {
			buf.WriteString("  - " + ing + "\n")
		}
	}
	buf.WriteString("\nBuen provecho!\n")
	return buf.String()
}

func buildWeeklyMenuHTML(data WeeklyMenuEmailData) string {
	tmpl := template.Must(template.New("weeklymenu").Parse(weeklyMenuHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const weeklyMenuHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Weekly Menu</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #16a34a;">{{.SiteName}}</h1>
              <p style="margin: 8px 0 0; font-size: 14px; color: #6b7280;">Week of {{.WeekOf}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="border-collapse: collapse;">
                <tr>
                  <th align="left" style="padding: 8px; font-size: 13px; color: #6b7280; border-bottom: 2px solid #e5e7eb;">Day</th>
                  <th align="left" style="padding: 8px; font-size: 13px; color: #6b7280; border-bottom: 2px solid #e5e7eb;">Lunch</th>
                  <th align="left" style="padding: 8px; font-size: 13px; color: #6b7280; border-bottom: 2px solid #e5e7eb;">Dinner</th>
                </tr>
                {{range .Days}}
                <tr>
                  <td style="padding: 8px; font-size: 14px; color: #1f2937; border-bottom: 1px solid #f3f4f6;">{{.Day}}</td>
                  <td style="padding: 8px; font-size: 14px; color: #374151; border-bottom: 1px solid #f3f4f6;">{{if .Lunch}}{{.Lunch}}{{else}}&mdash;{{end}}</td>
                  <td style="padding: 8px; font-size: 14px; color: #374151; border-bottom: 1px solid #f3f4f6;">{{if .Dinner}}{{.Dinner}}{{else}}&mdash;{{end}}</td>
                </tr>
                {{end}}
              </table>
              {{if .Ingredients}}
              <h2 style="margin: 24px 0 8px; font-size: 16px; color: #1f2937;">Shopping list</h2>
              <ul style="margin: 0; padding-left: 20px; font-size: 14px; color: #374151; line-height: 1.7;">
                {{range .Ingredients}}<li>{{.}}</li>{{end}}
              </ul>
              {{end}}
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You received this email because you saved a weekly menu on {{.SiteName}}.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
