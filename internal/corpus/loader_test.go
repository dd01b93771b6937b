package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_nestedShape(t *testing.T) {
	path := writeCorpus(t, `[
		{"year": 2567, "month": "มกราคม", "documents": [
			{"เลขที่หนังสือ": "กค 0702/123", "เรื่อง": "ภาษีเงินได้บุคคลธรรมดา กรณีเงินเดือน",
			 "ข้อกฎหมาย": "มาตรา 40 (1)", "ข้อหารือ": "สอบถามเรื่องเงินเดือน", "แนววินิจฉัย": "ต้องเสียภาษี"},
			{"เรื่อง": "ภาษีมูลค่าเพิ่ม กรณีนำเข้า", "ข้อกฎหมาย": "ภาษีมูลค่าเพิ่ม มาตรา 81",
			 "ข้อหารือ": "นำเข้าอาหารสัตว์", "แนววินิจฉัย": "ได้รับยกเว้น"}
		]},
		{"year": 2567, "month": "กุมภาพันธ์", "documents": [
			{"เลขที่หนังสือ": "กค 0702/456", "เรื่อง": "ภาษีเงินได้นิติบุคคล", "ข้อกฎหมาย": "มาตรา 65",
			 "ข้อหารือ": "รายจ่ายบริษัท", "แนววินิจฉัย": "หักได้"}
		]}
	]`)

	chunks, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	first := chunks[0]
	if first.Title != "ภาษีเงินได้บุคคลธรรมดา กรณีเงินเดือน" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	for _, part := range []string{first.Title, "สอบถามเรื่องเงินเดือน", "ต้องเสียภาษี"} {
		if !contains(first.SearchText, part) {
			t.Errorf("search text missing %q", part)
		}
	}
	if !contains(first.Content, "ข้อหารือ: สอบถามเรื่องเงินเดือน") || !contains(first.Content, "แนววินิจฉัย: ต้องเสียภาษี") {
		t.Errorf("content not labeled: %q", first.Content)
	}
	if first.Ref() != "กค 0702/123: ภาษีเงินได้บุคคลธรรมดา กรณีเงินเดือน" {
		t.Errorf("unexpected ref: %q", first.Ref())
	}
	if chunks[1].Ref() != chunks[1].Title {
		t.Errorf("chunk without book number should use title as ref, got %q", chunks[1].Ref())
	}
}

func TestLoad_flatShape(t *testing.T) {
	path := writeCorpus(t, `[
		{"title": "เอกสารทดสอบ", "content": "เนื้อหาทดสอบ"},
		{"title": "เอกสารสอง", "content": "เนื้อหาสอง"}
	]`)

	chunks, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "เนื้อหาทดสอบ" {
		t.Errorf("flat content should be used verbatim, got %q", chunks[0].Content)
	}
	if !contains(chunks[0].SearchText, "เอกสารทดสอบ") || !contains(chunks[0].SearchText, "เนื้อหาทดสอบ") {
		t.Errorf("search text should combine title and content, got %q", chunks[0].SearchText)
	}
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrCorpusNotFound) {
		t.Fatalf("expected ErrCorpusNotFound, got %v", err)
	}
}

func TestLoad_malformedJSON(t *testing.T) {
	path := writeCorpus(t, `{"not": "a list"`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrCorpusNotFound) {
		t.Fatal("malformed JSON must not be reported as missing corpus")
	}
}

func TestLoad_emptyCorpus(t *testing.T) {
	path := writeCorpus(t, `[]`)
	chunks, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestTagDomain(t *testing.T) {
	tests := []struct {
		name string
		doc  DocumentRecord
		want DomainTag
	}{
		{"personal income section", DocumentRecord{LegalBasis: "มาตรา 40 (2)"}, DomainPersonalIncome},
		{"corporate income section", DocumentRecord{LegalBasis: "มาตรา 65 ตรี"}, DomainCorporateIncome},
		{"vat in legal basis", DocumentRecord{LegalBasis: "ภาษีมูลค่าเพิ่ม มาตรา 81"}, DomainVAT},
		{"vat in subject", DocumentRecord{Subject: "ภาษีมูลค่าเพิ่ม กรณีนำเข้า"}, DomainVAT},
		{"income before vat", DocumentRecord{LegalBasis: "มาตรา 40 และภาษีมูลค่าเพิ่ม"}, DomainPersonalIncome},
		{"untagged", DocumentRecord{LegalBasis: "มาตรา 91"}, DomainNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagDomain(tt.doc); got != tt.want {
				t.Errorf("tagDomain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDomainTag_Label(t *testing.T) {
	if DomainNone.Label() != "ทั่วไป" {
		t.Errorf("unexpected label for DomainNone: %q", DomainNone.Label())
	}
	if DomainVAT.Label() != "ภาษีมูลค่าเพิ่ม" {
		t.Errorf("unexpected label for DomainVAT: %q", DomainVAT.Label())
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
