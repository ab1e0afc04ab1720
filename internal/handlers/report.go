package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"youthpolicy/internal/config"
	sentryutil "youthpolicy/internal/sentry"

	"github.com/jung-kurt/gofpdf"
)

// PDF layout constants (A4, mm).
const (
	pageW    = 210.0
	pageH    = 297.0
	marginL  = 20.0
	marginR  = 20.0
	marginT  = 20.0
	contentW = pageW - marginL - marginR
)

var (
	cNavy   = [3]int{27, 58, 84}
	cInk75  = [3]int{64, 64, 64}
	cInk50  = [3]int{107, 107, 107}
	cInk15  = [3]int{217, 217, 217}
	cAccent = [3]int{42, 107, 69}
)

func setFill(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setDraw(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetDrawColor(c[0], c[1], c[2]) }

// ensureSpace adds a page when fewer than needed mm remain.
func ensureSpace(pdf *gofpdf.Fpdf, needed float64) {
	if pdf.GetY()+needed > pageH-25 {
		pdf.AddPage()
		pdf.SetY(marginT)
	}
}

// SavedReport renders the saved policies as a downloadable PDF. Korean text
// requires an embedded UTF-8 font; without one the endpoint is unavailable.
func (h *Handler) SavedReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items := h.saved.Load()
	if len(items) == 0 {
		writeError(w, http.StatusNotFound, "저장된 정책이 없습니다")
		return
	}

	fontPath := config.Cfg.PDFFontPath
	if _, err := os.Stat(fontPath); err != nil {
		writeError(w, http.StatusServiceUnavailable, "PDF 글꼴이 설정되지 않았습니다")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("kr", "", fontPath)
	pdf.SetMargins(marginL, marginT, marginR)
	pdf.AddPage()

	// Header
	setText(pdf, cNavy)
	pdf.SetFont("kr", "", 18)
	pdf.CellFormat(contentW, 10, "나의 청년 정책 리스트", "", 1, "L", false, 0, "")
	setText(pdf, cInk50)
	pdf.SetFont("kr", "", 9)
	pdf.CellFormat(contentW, 6, time.Now().Format("2006-01-02")+" 기준 · 총 "+fmt.Sprintf("%d", len(items))+"건", "", 1, "L", false, 0, "")
	setDraw(pdf, cInk15)
	pdf.Line(marginL, pdf.GetY()+2, pageW-marginR, pdf.GetY()+2)
	pdf.Ln(6)

	for i, item := range items {
		ensureSpace(pdf, 34)
		startY := pdf.GetY()

		// Left accent bar per entry
		setFill(pdf, cAccent)
		pdf.Rect(marginL, startY, 2, 28, "F")

		x := marginL + 6
		pdf.SetXY(x, startY)
		setText(pdf, cNavy)
		pdf.SetFont("kr", "", 12)
		pdf.CellFormat(contentW-6, 7, fmt.Sprintf("%d. %s", i+1, item.Title), "", 1, "L", false, 0, "")

		pdf.SetX(x)
		setText(pdf, cInk75)
		pdf.SetFont("kr", "", 9)
		pdf.CellFormat(contentW-6, 5.5, "지원 내용: "+item.Amount, "", 1, "L", false, 0, "")

		pdf.SetX(x)
		pdf.CellFormat(contentW-6, 5.5, fmt.Sprintf("매칭 점수: %.1f · 마감: %s", item.Score, orDash(item.Deadline)), "", 1, "L", false, 0, "")

		if len(item.Tags) > 0 {
			pdf.SetX(x)
			setText(pdf, cInk50)
			pdf.SetFont("kr", "", 8)
			tagLine := ""
			for _, tag := range item.Tags {
				tagLine += "#" + tag + " "
			}
			pdf.CellFormat(contentW-6, 5, tagLine, "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	// Footer note
	ensureSpace(pdf, 12)
	setText(pdf, cInk50)
	pdf.SetFont("kr", "", 8)
	pdf.CellFormat(contentW, 5, "신청 자격과 마감일은 각 기관의 공고에서 최종 확인하세요.", "", 1, "L", false, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="youth-policies.pdf"`)
	if err := pdf.Output(w); err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "saved-report"})
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
