package handlers

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	sentryutil "youthpolicy/internal/sentry"

	"github.com/ledongthuc/pdf"
)

type incomeResponse struct {
	Income int  `json:"income"`
	Found  bool `json:"found"`
}

// ParseIncome extracts the annual income figure (만원 단위) from an uploaded
// income-certificate PDF so the user can skip typing it into the wizard.
func (h *Handler) ParseIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Limit upload to 5MB
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "파일이 너무 큽니다 (최대 5MB)")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "파일을 찾을 수 없습니다")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "parse-income", "phase": "read"})
		writeError(w, http.StatusInternalServerError, "파일을 읽을 수 없습니다")
		return
	}

	// Reject non-PDF uploads by sniffed MIME type
	if mime := http.DetectContentType(data); mime != "application/pdf" {
		writeError(w, http.StatusBadRequest, "PDF 파일만 업로드할 수 있습니다")
		return
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "parse-income", "phase": "pdf-parse"})
		writeJSON(w, http.StatusOK, incomeResponse{})
		return
	}

	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		p := pdfReader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString(" ")
	}

	income, found := extractIncome(textBuilder.String())
	writeJSON(w, http.StatusOK, incomeResponse{Income: income, Found: found})
}

var incomeRe = regexp.MustCompile(`(?:소득금액|연소득|총소득)[:\s]*([0-9][0-9,]*)\s*(만원|원)?`)

// extractIncome pulls the first income figure out of extracted certificate
// text, normalized to 만원.
func extractIncome(text string) (int, bool) {
	m := incomeRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	numStr := strings.ReplaceAll(m[1], ",", "")
	val, err := strconv.Atoi(numStr)
	if err != nil || val <= 0 {
		return 0, false
	}
	// Certificates state amounts in 원; the wizard uses 만원.
	if m[2] == "원" || (m[2] == "" && val >= 1_000_000) {
		val = val / 10_000
	}
	return val, val > 0
}
