package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"

	"wellbeing-assessment/internal/session"
)

// DefaultFontPaths are checked in order; DejaVuSans covers the characters in
// clinician names and free-text answers.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

type Service struct {
	tgClient  TelegramClient
	chatID    int64
	fontPaths []string
	logger    zerolog.Logger
}

// NewService builds the report service. A nil client or zero chat id turns
// delivery into a no-op while rendering keeps working.
func NewService(tg TelegramClient, chatID int64, fontPaths []string, logger zerolog.Logger) *Service {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	return &Service{
		tgClient:  tg,
		chatID:    chatID,
		fontPaths: fontPaths,
		logger:    logger.With().Str("component", "report").Logger(),
	}
}

type line struct {
	size int
	text string
	gap  float64
}

// Lines lays out the report as plain text, one entry per printed line.
func Lines(subject session.Subject, rec session.AnalysisRecord) []string {
	layout := layout(subject, rec)
	out := make([]string, 0, len(layout))
	for _, l := range layout {
		out = append(out, l.text)
	}
	return out
}

func layout(subject session.Subject, rec session.AnalysisRecord) []line {
	a := rec.Analysis
	lines := []line{
		{20, "Wellbeing Assessment Report", 30},
		{12, fmt.Sprintf("Date: %s", rec.CreatedAt.Format("02.01.2006 15:04")), 15},
		{12, fmt.Sprintf("Subject: %s <%s>", subject.Name, subject.Email), 15},
		{12, fmt.Sprintf("Session: %s", rec.SessionID), 15},
		{12, fmt.Sprintf("Responses analyzed: %d", rec.TotalResponses), 15},
		{12, fmt.Sprintf("Overall score: %d/100 (risk: %s)", a.OverallScore, a.RiskLevel), 25},
		{14, "Possible conditions:", 15},
	}

	if len(a.Conditions) == 0 {
		lines = append(lines, line{11, "- No conditions indicated.", 15})
	}
	for _, c := range a.Conditions {
		lines = append(lines, line{11, fmt.Sprintf("- %s %s (%d%%): %s", c.Code, c.Name, c.Probability, c.Reasoning), 17})
	}

	if a.OverallAssessment != "" {
		lines = append(lines,
			line{14, "Assessment:", 15},
			line{11, a.OverallAssessment, 17},
		)
	}

	lines = append(lines, line{14, "Recommendations:", 15})
	for _, r := range a.Recommendations {
		lines = append(lines, line{11, "- " + r, 17})
	}

	lines = append(lines, line{14, "Matched clinicians:", 15})
	if len(rec.Clinicians) == 0 {
		lines = append(lines, line{11, "- No matching clinicians in the roster.", 15})
	}
	for _, c := range rec.Clinicians {
		online := ""
		if c.OnlineSessions {
			online = ", online sessions"
		}
		lines = append(lines, line{11, fmt.Sprintf("- %s, %s (%s), rating %.1f%s, %s",
			c.Name, c.Specialty, c.Location, c.Rating, online, c.Phone), 17})
	}
	return lines
}

// Render builds the PDF for one analysis.
func (s *Service) Render(_ context.Context, subject session.Subject, rec session.AnalysisRecord) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF from %s: %w", strings.Join(s.fontPaths, ", "), fontErr)
	}

	for _, l := range layout(subject, rec) {
		if err := pdf.SetFont("DejaVu", "", l.size); err != nil {
			return nil, err
		}
		wrapped, err := pdf.SplitText(l.text, 500)
		if err != nil {
			wrapped = []string{l.text}
		}
		for _, w := range wrapped {
			if pdf.GetY() > 780 {
				pdf.AddPage()
			}
			pdf.Cell(nil, w)
			pdf.Br(float64(l.size) + 2)
		}
		pdf.Br(l.gap - float64(l.size))
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// SendClinicianReport renders the report and posts it to the configured chat
// with a short summary message.
func (s *Service) SendClinicianReport(ctx context.Context, subject session.Subject, rec session.AnalysisRecord) error {
	if s.tgClient == nil || s.chatID == 0 {
		s.logger.Debug().Str("session_id", rec.SessionID.String()).Msg("report delivery not configured")
		return nil
	}

	summary := fmt.Sprintf("New assessment for %s: score %d/100, risk %s, %d condition(s), %d clinician match(es).",
		subject.Name, rec.Analysis.OverallScore, rec.Analysis.RiskLevel, len(rec.Analysis.Conditions), len(rec.Clinicians))
	if err := s.tgClient.SendMessage(ctx, s.chatID, summary); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	data, err := s.Render(ctx, subject, rec)
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("report_%s_%s.pdf", rec.SessionID, time.Now().Format("20060102"))
	if err := s.tgClient.SendDocument(ctx, s.chatID, data, fileName); err != nil {
		return fmt.Errorf("send report document: %w", err)
	}

	s.logger.Info().Str("session_id", rec.SessionID.String()).Int64("chat_id", s.chatID).Msg("report sent")
	return nil
}
