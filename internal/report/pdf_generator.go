package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/user/agent_boxplot_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
	rankingRows            = 10
)

// ReportInput is everything the PDF summary shows.
type ReportInput struct {
	Source    string
	Metric    string
	NumTrials int
	Results   *analysis.AnalysisResults
	Plot      *RenderedPlot
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manual Y tracking for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// writeTable draws a header row and data rows; widths are fractions of the content width.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	writeHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, header := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * 2)
	writeHeader()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			writeHeader()
		}
		s.applyStyle("tableCell")
		x := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// BuildPDFReport lays out the boxplot with a per-agent summary table and the
// agent rankings, and returns the encoded PDF.
func BuildPDFReport(in ReportInput) ([]byte, error) {
	if in.Results == nil || len(in.Results.Summaries) == 0 {
		return nil, &RenderError{Stage: "build", Err: fmt.Errorf("no analysis results for report")}
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	styler := newPDFStyler(pdf)
	styler.newPage()

	styler.writeParagraph(Title(in.Metric, in.NumTrials), "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Source: %s", in.Source), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Agents: %d    Trials per agent: %d", len(in.Results.Summaries), in.NumTrials), "normal", "L")
	styler.addSpacer(3)

	if in.Plot != nil && len(in.Plot.PNG) > 0 && in.Plot.Width > 0 {
		imgHeight := pdfPageHeightLandscape - styler.currentY - pdfMargin - styler.lineHeight - 4
		imgWidth := imgHeight * float64(in.Plot.Width) / float64(in.Plot.Height)
		if imgWidth > pdfContentWidth {
			imgWidth = pdfContentWidth
			imgHeight = imgWidth * float64(in.Plot.Height) / float64(in.Plot.Width)
		}
		styler.addImage(in.Plot.PNG, "boxplot", imgWidth, imgHeight, fmt.Sprintf("%s distribution per agent", in.Metric))
	} else {
		styler.writeParagraph("Boxplot not available.", "normal", "L")
	}

	styler.newPage()
	styler.writeParagraph("Per-Agent Summary", "h2", "L")
	headers := []string{"Agent", "Trials", "Min", "Q1", "Median", "Q3", "Max", "Mean", "Std Dev"}
	widthsRel := []float64{0.08, 0.08, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12}
	rows := make([][]string, 0, len(in.Results.Summaries))
	for _, s := range in.Results.Summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.AgentID),
			strconv.Itoa(s.NumTrials),
			formatValue(s.Min),
			formatValue(s.Q1),
			formatValue(s.Median),
			formatValue(s.Q3),
			formatValue(s.Max),
			formatValue(s.Mean),
			formatValue(s.StdDev),
		})
	}
	styler.writeTable(headers, widthsRel, rows)
	styler.addSpacer(5)

	rankings := []struct {
		Title      string
		Data       []analysis.RankedAgentInfo
		ValueLabel string
	}{
		{"Top 10 Agents by Median", in.Results.RankedByMedian, "Median"},
		{"Top 10 Agents by Spread", in.Results.RankedBySpread, "Std Dev"},
		{"Top 10 Agents by Range", in.Results.RankedByRange, "Range (Max - Min)"},
	}
	for _, rankSet := range rankings {
		styler.writeParagraph(rankSet.Title, "h2", "L")
		if len(rankSet.Data) == 0 {
			styler.writeParagraph(fmt.Sprintf("No data for %s.", strings.ToLower(rankSet.Title)), "normal", "L")
			continue
		}
		rankRows := make([][]string, 0, rankingRows)
		for i, item := range rankSet.Data {
			if i >= rankingRows {
				break
			}
			rankRows = append(rankRows, []string{strconv.Itoa(i + 1), strconv.Itoa(item.AgentID), formatValue(item.Value)})
		}
		styler.writeTable([]string{"Rank", "Agent", rankSet.ValueLabel}, []float64{0.2, 0.3, 0.5}, rankRows)
		styler.addSpacer(5)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, &RenderError{Stage: "encode", Err: fmt.Errorf("failed to write PDF report: %w", err)}
	}
	return buf.Bytes(), nil
}
