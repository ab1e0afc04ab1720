package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCSV_HeaderMapsColumns(t *testing.T) {
	csvData := "정책명,시도명,정책소개\n청년 월세 특별지원,서울특별시,무주택 청년 월세 지원\n국민취업지원제도,전국,취업 지원 프로그램\n"
	records, err := parseCSV(strings.NewReader(csvData), "test.csv")
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0]["정책명"] != "청년 월세 특별지원" {
		t.Errorf("title = %q", records[0]["정책명"])
	}
	if records[1]["시도명"] != "전국" {
		t.Errorf("region = %q", records[1]["시도명"])
	}
}

func TestParseCSV_BOMStripped(t *testing.T) {
	csvData := "\uFEFF정책명,시도명\n테스트정책,서울\n"
	records, err := parseCSV(strings.NewReader(csvData), "test.csv")
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if records[0]["정책명"] != "테스트정책" {
		t.Errorf("BOM-prefixed header must map cleanly, got keys %v", records[0])
	}
}

func TestParseCSV_StripsEmbeddedHTML(t *testing.T) {
	csvData := "정책명,정책소개\n테스트정책,<p>월세 <b>20만원</b> 지원</p>\n"
	records, err := parseCSV(strings.NewReader(csvData), "test.csv")
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if got := records[0]["정책소개"]; got != "월세 20만원 지원" {
		t.Errorf("description = %q, want markup removed", got)
	}
}

func TestParseCSV_RaggedRowFailsWhole(t *testing.T) {
	csvData := "정책명,시도명\n정상행,서울\n\"깨진행\n"
	_, err := parseCSV(strings.NewReader(csvData), "test.csv")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if parseErr.Source != "test.csv" {
		t.Errorf("source = %q", parseErr.Source)
	}
}

func TestParseCSV_QuotedCells(t *testing.T) {
	csvData := "정책명,정책소개\n\"청년, 신혼부부 주거지원\",\"보증금 및 월세 지원\"\n"
	records, err := parseCSV(strings.NewReader(csvData), "test.csv")
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if records[0]["정책명"] != "청년, 신혼부부 주거지원" {
		t.Errorf("quoted cell = %q", records[0]["정책명"])
	}
}

func TestLoader_NotLoadedBeforeIngest(t *testing.T) {
	l := NewLoader("", "nowhere.csv", "youthpolicy-test")
	if _, err := l.Records(); err != ErrNotLoaded {
		t.Errorf("want ErrNotLoaded, got %v", err)
	}
	if _, err := l.Search("월세"); err != ErrNotLoaded {
		t.Errorf("Search before load: want ErrNotLoaded, got %v", err)
	}
}

func TestLoader_LocalFileAndSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.csv")
	csvData := "정책명,시도명,정책소개\n청년 월세 특별지원,서울특별시,무주택 청년 월세 지원\n국민취업지원제도,,취업 지원 프로그램\n"
	if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("", path, "youthpolicy-test")
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	hits, err := l.Search("월세")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0]["정책명"] != "청년 월세 특별지원" {
		t.Errorf("hits = %v", hits)
	}

	// A record with no region still matches via the fallback label.
	hits, _ = l.Search("전국/기타")
	if len(hits) != 1 || hits[0]["정책명"] != "국민취업지원제도" {
		t.Errorf("fallback-region hits = %v", hits)
	}
}

func TestLoader_ParseFailureServesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	if err := os.WriteFile(path, []byte("정책명,시도명\n\"깨진행\n"), 0644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("", path, "youthpolicy-test")
	if err := l.Load(); err == nil {
		t.Fatal("Load should fail on broken CSV")
	}

	_, err := l.Records()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Records after failed load: want ParseError, got %v", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader("", filepath.Join(t.TempDir(), "absent.csv"), "youthpolicy-test")
	if err := l.Load(); err == nil {
		t.Fatal("Load should fail when the file is absent")
	}
	if _, err := l.Records(); err == nil {
		t.Error("Records should surface the load error")
	}
}
