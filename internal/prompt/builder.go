// Package prompt renders the instruction template sent to the answering backend.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pattarin/rdrag/internal/retrieval"
)

// RefusalPhrase is the fixed phrase the model is instructed to emit when the
// supplied context cannot answer the question.
const RefusalPhrase = "ไม่พบข้อมูลในเอกสารอ้างอิงที่ระบุ"

// AnswerPrefix is pre-filled at the end of the prompt to bias the model toward
// citation-first answers.
const AnswerPrefix = "จากเอกสารอ้างอิง: "

const systemInstructions = "คุณคือผู้เชี่ยวชาญด้านกฎหมายภาษีอากรของกรมสรรพากร หน้าที่ของคุณคือการตอบคำถามโดยใช้ข้อมูลจาก 'เอกสารอ้างอิง' ที่ได้รับเท่านั้น\n" +
	"ข้อปฏิบัติอย่างเคร่งครัด:\n" +
	"1. ตอบคำถามโดยอิงจากเนื้อหาใน 'เอกสารอ้างอิง' เท่านั้น ห้ามใช้ความรู้ภายนอกหรือความคิดเห็นส่วนตัว\n" +
	"2. หากข้อมูลในเอกสารอ้างอิงไม่เพียงพอที่จะตอบคำถาม หรือไม่เกี่ยวข้อง ให้ตอบว่า '" + RefusalPhrase + "' เท่านั้น ห้ามพยายามตอบหรือคาดเดา\n" +
	"3. ห้ามอ้างถึงกฎหมายหรือมาตราที่ไม่มีอยู่ในเอกสารอ้างอิง\n" +
	"4. ใช้ภาษาไทยที่เป็นทางการ สุภาพ และกระชับ\n"

// Builder renders prompts in the chat-template format the local model expects.
// The role-delimited structure (system / user / assistant) must stay stable so
// the backend parses it consistently.
type Builder struct{}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the full prompt for the question with one context block per
// hit, in retrieval rank order.
func (b *Builder) Build(hits []retrieval.Hit, question string) string {
	var sb strings.Builder
	sb.WriteString("<|im_start|>system\n")
	sb.WriteString(systemInstructions)
	sb.WriteString("<|im_end|>\n")
	sb.WriteString("<|im_start|>user\n")
	sb.WriteString("เอกสารอ้างอิง:\n")
	for _, hit := range hits {
		fmt.Fprintf(&sb, "\n---\nหัวข้อ: %s\n%s\n", hit.Chunk.Ref(), hit.Chunk.Content)
	}
	fmt.Fprintf(&sb, "\nคำถาม: %s<|im_end|>\n", question)
	sb.WriteString("<|im_start|>assistant\n")
	sb.WriteString(AnswerPrefix)
	return sb.String()
}
