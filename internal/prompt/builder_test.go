package prompt

import (
	"strings"
	"testing"

	"github.com/pattarin/rdrag/internal/corpus"
	"github.com/pattarin/rdrag/internal/retrieval"
)

func TestBuild_containsContextAndQuestion(t *testing.T) {
	hits := []retrieval.Hit{
		{Score: 0.9, Chunk: corpus.Chunk{
			Title:   "ภาษีมูลค่าเพิ่ม กรณีนำเข้า",
			Content: "ข้อหารือ: นำเข้าอาหารสัตว์\nแนววินิจฉัย: ได้รับยกเว้น",
			Source:  corpus.DocumentRecord{BookNumber: "กค 0702/123"},
		}},
	}
	question := "นำเข้าอาหารสัตว์ต้องเสีย vat ไหม"
	got := NewBuilder().Build(hits, question)

	for _, want := range []string{
		"กค 0702/123: ภาษีมูลค่าเพิ่ม กรณีนำเข้า",
		"แนววินิจฉัย: ได้รับยกเว้น",
		"คำถาม: " + question,
		RefusalPhrase,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuild_roleSectionsStable(t *testing.T) {
	got := NewBuilder().Build(nil, "คำถามทดสอบ")
	sys := strings.Index(got, "<|im_start|>system\n")
	user := strings.Index(got, "<|im_start|>user\n")
	assistant := strings.Index(got, "<|im_start|>assistant\n")
	if sys != 0 || user < sys || assistant < user {
		t.Errorf("role sections out of order: system=%d user=%d assistant=%d", sys, user, assistant)
	}
	if !strings.HasSuffix(got, AnswerPrefix) {
		t.Errorf("prompt should end with the pre-filled answer prefix, got %q", got[len(got)-40:])
	}
}

func TestBuild_contextBlocksInRankOrder(t *testing.T) {
	hits := []retrieval.Hit{
		{Score: 0.9, Chunk: corpus.Chunk{Title: "อันดับหนึ่ง", Content: "เนื้อหาหนึ่ง"}},
		{Score: 0.5, Chunk: corpus.Chunk{Title: "อันดับสอง", Content: "เนื้อหาสอง"}},
	}
	got := NewBuilder().Build(hits, "คำถาม")
	if strings.Index(got, "อันดับหนึ่ง") > strings.Index(got, "อันดับสอง") {
		t.Error("context blocks should appear in retrieval rank order")
	}
}
