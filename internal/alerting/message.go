// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package alerting

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/project-barfani/barfani/internal/models"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	Language models.Language
	Subject  string
	BodyText string
	BodyHTML string
}

// strings shown in a rendered notification, per language
type translation struct {
	title       string
	subtitle    string
	alertLevel  string
	location    string
	readings    string
	temperature string
	seismic     string
	waterLevel  string
	timestamp   string
	action      string
	footer      string
	contactPDMA string
	evacuate    string
	monitor     string
	stay        string
	dashboard   string
}

// Urdu serves the provincial authorities' working language; the "bs"
// entries are romanized Burushaski for the Hunza valley communities.
var translations = map[models.Language]translation{
	models.LangEnglish: {
		title:       "Glacier Lake Outburst Flood (GLOF) Alert",
		subtitle:    "Early Warning System - Project Barfani",
		alertLevel:  "Alert Level",
		location:    "Location",
		readings:    "Sensor Readings",
		temperature: "Temperature",
		seismic:     "Seismic Activity",
		waterLevel:  "Water Level",
		timestamp:   "Detection Time",
		action:      "Recommended Actions",
		footer:      "This is an automated alert from the Project Barfani GLOF monitoring system.",
		contactPDMA: "Contact PDMA Gilgit-Baltistan immediately",
		evacuate:    "Prepare for possible evacuation",
		monitor:     "Continue monitoring situation",
		stay:        "Situation normal, stay informed",
		dashboard:   "View Live Dashboard",
	},
	models.LangUrdu: {
		title:       "گلیشیئر جھیل سیلاب (GLOF) انتباہ",
		subtitle:    "ابتدائی وارننگ سسٹم - پروجیکٹ برفانی",
		alertLevel:  "الرٹ کی سطح",
		location:    "مقام",
		readings:    "سینسر ریڈنگز",
		temperature: "درجہ حرارت",
		seismic:     "زلزلے کی سرگرمی",
		waterLevel:  "پانی کی سطح",
		timestamp:   "وقت",
		action:      "تجویز کردہ اقدامات",
		footer:      "یہ پروجیکٹ برفانی GLOF مانیٹرنگ سسٹم کی خودکار الرٹ ہے۔",
		contactPDMA: "فوری طور پر PDMA گلگت بلتستان سے رابطہ کریں",
		evacuate:    "ممکنہ انخلا کی تیاری کریں",
		monitor:     "صورتحال کی نگرانی جاری رکھیں",
		stay:        "صورتحال معمول پر ہے، باخبر رہیں",
		dashboard:   "ڈیش بورڈ دیکھیں",
	},
	models.LangBalti: {
		title:       "Glacier Lake Selab (GLOF) Khabardári",
		subtitle:    "Pehle Warning System - Barfani Project",
		alertLevel:  "Alert Daraja",
		location:    "Jagah",
		readings:    "Sensor Readings",
		temperature: "Tápman",
		seismic:     "Zalzala Activity",
		waterLevel:  "Hik Level",
		timestamp:   "Waqt",
		action:      "Tavsiya Actions",
		footer:      "Ye Barfani Project GLOF monitoring system ki automatic alert.",
		contactPDMA: "Fauran PDMA Gilgit-Baltistan se rabita",
		evacuate:    "Mumkin evacuation ki tayyari",
		monitor:     "Halat ki nigrani jari",
		stay:        "Halat normal, khabardar rahen",
		dashboard:   "Dashboard dekho",
	},
}

func severityEmoji(sev models.Severity) string {
	switch sev {
	case models.SeverityCritical:
		return "🚨🔴"
	case models.SeverityHigh:
		return "⚠️🟠"
	case models.SeverityMedium:
		return "⚡🟡"
	}
	return "✅🟢"
}

type severityColors struct {
	bg, text, border string
}

func severityPalette(sev models.Severity) severityColors {
	switch sev {
	case models.SeverityCritical:
		return severityColors{bg: "#DC2626", text: "#FFFFFF", border: "#991B1B"}
	case models.SeverityHigh:
		return severityColors{bg: "#EA580C", text: "#FFFFFF", border: "#C2410C"}
	case models.SeverityMedium:
		return severityColors{bg: "#EAB308", text: "#000000", border: "#A16207"}
	}
	return severityColors{bg: "#10B981", text: "#FFFFFF", border: "#047857"}
}

func actionText(t translation, sev models.Severity) string {
	switch sev {
	case models.SeverityCritical:
		return t.contactPDMA + " • " + t.evacuate
	case models.SeverityHigh:
		return t.evacuate + " • " + t.monitor
	case models.SeverityMedium:
		return t.monitor
	}
	return t.stay
}

var htmlTmpl = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="UTF-8">
  <title>{{.Subject}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f3f4f6; padding: 20px;">
    <tr><td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 16px; overflow: hidden;">
        <tr>
          <td style="background: linear-gradient(135deg, #3B82F6, #8B5CF6); padding: 30px 40px; text-align: center;">
            <h1 style="margin: 0; color: #ffffff; font-size: 28px;">{{.Emoji}} {{.Title}}</h1>
            <p style="margin: 10px 0 0 0; color: #E0E7FF; font-size: 14px;">{{.Subtitle}}</p>
          </td>
        </tr>
        <tr>
          <td style="background-color: {{.BG}}; padding: 20px 40px; text-align: center; border-left: 6px solid {{.Border}};">
            <h2 style="margin: 0; color: {{.Text}}; font-size: 24px; text-transform: uppercase;">{{.AlertLevel}}: {{.Severity}}</h2>
          </td>
        </tr>
        <tr>
          <td style="padding: 30px 40px;">
            <div style="margin-bottom: 24px;">
              <h3 style="margin: 0 0 12px 0; color: #1F2937; font-size: 16px;">📍 {{.Location}}</h3>
              <p style="margin: 0; color: #4B5563; font-size: 18px; font-weight: 600;">{{.NodeID}}</p>
            </div>
            <div style="margin-bottom: 24px;">
              <h3 style="margin: 0 0 16px 0; color: #1F2937; font-size: 16px;">📊 {{.Readings}}</h3>
              <table width="100%" cellpadding="12" cellspacing="0" style="border: 2px solid #E5E7EB; border-radius: 8px;">
                <tr style="background-color: #F9FAFB;">
                  <td><strong style="color: #EF4444;">🌡️ {{.TemperatureLabel}}:</strong></td>
                  <td style="text-align: right;"><strong>{{.Temperature}}°C</strong></td>
                </tr>
                <tr>
                  <td><strong style="color: #F59E0B;">📊 {{.SeismicLabel}}:</strong></td>
                  <td style="text-align: right;"><strong>{{.Seismic}}</strong></td>
                </tr>
                <tr style="background-color: #F9FAFB;">
                  <td><strong style="color: #3B82F6;">💧 {{.WaterLabel}}:</strong></td>
                  <td style="text-align: right;"><strong>{{.WaterLevel}} cm</strong></td>
                </tr>
              </table>
            </div>
            <p style="margin: 0 0 24px 0; color: #6B7280; font-size: 14px;"><strong>🕐 {{.TimestampLabel}}:</strong> {{.Timestamp}}</p>
            <div style="border: 2px solid {{.Border}}; border-radius: 8px; padding: 20px; margin-bottom: 24px;">
              <h3 style="margin: 0 0 12px 0; color: #1F2937; font-size: 16px;">⚡ {{.ActionLabel}}</h3>
              <p style="margin: 0; color: #1F2937; font-size: 15px;">{{.Action}}</p>
            </div>
{{if .ShowDashboard}}            <div style="text-align: center; margin: 30px 0;">
              <a href="{{.DashboardURL}}" style="display: inline-block; background-color: {{.BG}}; color: {{.Text}}; padding: 14px 32px; text-decoration: none; border-radius: 8px; font-weight: bold;">📺 {{.DashboardLabel}}</a>
            </div>
{{end}}          </td>
        </tr>
        <tr>
          <td style="background-color: #F9FAFB; padding: 24px 40px; text-align: center; border-top: 1px solid #E5E7EB;">
            <p style="margin: 0 0 8px 0; color: #6B7280; font-size: 12px;">{{.Footer}}</p>
            <p style="margin: 0; color: #9CA3AF; font-size: 11px;">🏔️ Project Barfani | Glacier Monitoring System<br>Northern Pakistan GLOF Early Warning</p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>
`))

type htmlData struct {
	Lang             string
	Subject          string
	Emoji            string
	Title            string
	Subtitle         string
	AlertLevel       string
	Severity         string
	Location         string
	NodeID           string
	Readings         string
	TemperatureLabel string
	Temperature      string
	SeismicLabel     string
	Seismic          string
	WaterLabel       string
	WaterLevel       string
	TimestampLabel   string
	Timestamp        string
	ActionLabel      string
	Action           string
	Footer           string
	BG               template.CSS
	Text             template.CSS
	Border           template.CSS
	ShowDashboard    bool
	DashboardURL     string
	DashboardLabel   string
}

// Render produces the notification message for an alert in the given
// language. Unknown languages fall back to English text with the requested
// language recorded on the message.
func Render(alert models.Alert, lang models.Language, dashboardURL string) Message {
	t, ok := translations[lang]
	if !ok {
		t = translations[models.LangEnglish]
	}

	emoji := severityEmoji(alert.Severity)
	colors := severityPalette(alert.Severity)
	subject := fmt.Sprintf("%s GLOF Alert: %s Risk Detected", emoji, alert.Severity)
	action := actionText(t, alert.Severity)
	ts := alert.Reading.Timestamp.Format("2006-01-02 15:04:05 MST")

	var text strings.Builder
	fmt.Fprintf(&text, "%s %s: %s\n", emoji, t.title, alert.Severity)
	text.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&text, "%s: %s\n", t.alertLevel, alert.Severity)
	fmt.Fprintf(&text, "%s: %s\n\n", t.location, alert.NodeID)
	fmt.Fprintf(&text, "%s:\n", t.readings)
	fmt.Fprintf(&text, "  %s: %.1f°C\n", t.temperature, alert.Reading.TemperatureC)
	fmt.Fprintf(&text, "  %s: %.2f\n", t.seismic, alert.Reading.SeismicActivity)
	fmt.Fprintf(&text, "  %s: %.1f cm\n\n", t.waterLevel, alert.Reading.WaterLevelCM)
	for _, f := range alert.Factors {
		fmt.Fprintf(&text, "- %s\n", f)
	}
	fmt.Fprintf(&text, "\n%s: %s\n", t.timestamp, ts)
	fmt.Fprintf(&text, "%s: %s\n", t.action, action)
	if dashboardURL != "" {
		fmt.Fprintf(&text, "\n%s: %s\n", t.dashboard, dashboardURL)
	}
	text.WriteString("\n---\nProject Barfani - GLOF Monitoring System\n")

	var html strings.Builder
	_ = htmlTmpl.Execute(&html, htmlData{
		Lang:             string(lang),
		Subject:          subject,
		Emoji:            emoji,
		Title:            t.title,
		Subtitle:         t.subtitle,
		AlertLevel:       t.alertLevel,
		Severity:         string(alert.Severity),
		Location:         t.location,
		NodeID:           alert.NodeID,
		Readings:         t.readings,
		TemperatureLabel: t.temperature,
		Temperature:      fmt.Sprintf("%.1f", alert.Reading.TemperatureC),
		SeismicLabel:     t.seismic,
		Seismic:          fmt.Sprintf("%.2f", alert.Reading.SeismicActivity),
		WaterLabel:       t.waterLevel,
		WaterLevel:       fmt.Sprintf("%.1f", alert.Reading.WaterLevelCM),
		TimestampLabel:   t.timestamp,
		Timestamp:        ts,
		ActionLabel:      t.action,
		Action:           action,
		Footer:           t.footer,
		BG:               template.CSS(colors.bg),
		Text:             template.CSS(colors.text),
		Border:           template.CSS(colors.border),
		ShowDashboard:    dashboardURL != "" && (alert.Severity == models.SeverityCritical || alert.Severity == models.SeverityHigh),
		DashboardURL:     dashboardURL,
		DashboardLabel:   t.dashboard,
	})

	return Message{
		Language: lang,
		Subject:  subject,
		BodyText: text.String(),
		BodyHTML: html.String(),
	}
}
