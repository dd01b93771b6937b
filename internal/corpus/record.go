// Package corpus loads the scraped tax-ruling corpus and normalizes it into retrievable chunks.
package corpus

import (
	"encoding/json"
	"strings"
)

// DomainTag is a coarse tax-category tag attached to chunks and inferred from questions.
type DomainTag string

const (
	// DomainNone means no domain could be determined.
	DomainNone DomainTag = ""
	// DomainPersonalIncome covers personal income tax rulings (มาตรา 40).
	DomainPersonalIncome DomainTag = "เงินได้บุคคลธรรมดา"
	// DomainCorporateIncome covers corporate income tax rulings (มาตรา 65).
	DomainCorporateIncome DomainTag = "ภาษีเงินได้นิติบุคคล"
	// DomainVAT covers value-added tax rulings.
	DomainVAT DomainTag = "ภาษีมูลค่าเพิ่ม"
)

// Label returns a human-readable label for the tag, for log entries.
func (d DomainTag) Label() string {
	if d == DomainNone {
		return "ทั่วไป"
	}
	return string(d)
}

// DocumentRecord is one scraped ruling document as produced by the collection stages.
// Field names mirror the Revenue Department document structure; generic title/content
// fields appear in the flat corpus shape.
type DocumentRecord struct {
	BookNumber string
	Subject    string
	LegalBasis string
	Inquiry    string
	Ruling     string
	Title      string
	Content    string
}

// The Thai record keys contain combining marks (vowel and tone signs), which
// encoding/json does not accept inside struct tags, so the record is decoded
// and encoded through the literal key names.
const (
	keyBookNumber = "เลขที่หนังสือ"
	keySubject    = "เรื่อง"
	keyLegalBasis = "ข้อกฎหมาย"
	keyInquiry    = "ข้อหารือ"
	keyRuling     = "แนววินิจฉัย"
	keyTitle      = "title"
	keyContent    = "content"
)

// UnmarshalJSON decodes a record by its literal Thai key names. Unknown keys
// are ignored; non-string values are a parse error.
func (r *DocumentRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.BookNumber = fields[keyBookNumber]
	r.Subject = fields[keySubject]
	r.LegalBasis = fields[keyLegalBasis]
	r.Inquiry = fields[keyInquiry]
	r.Ruling = fields[keyRuling]
	r.Title = fields[keyTitle]
	r.Content = fields[keyContent]
	return nil
}

// MarshalJSON emits the record under its literal Thai key names, omitting
// empty fields.
func (r DocumentRecord) MarshalJSON() ([]byte, error) {
	fields := map[string]string{}
	for key, value := range map[string]string{
		keyBookNumber: r.BookNumber,
		keySubject:    r.Subject,
		keyLegalBasis: r.LegalBasis,
		keyInquiry:    r.Inquiry,
		keyRuling:     r.Ruling,
		keyTitle:      r.Title,
		keyContent:    r.Content,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return json.Marshal(fields)
}

// DisplayTitle returns the subject line, falling back to the generic title.
func (r DocumentRecord) DisplayTitle() string {
	if r.Subject != "" {
		return r.Subject
	}
	return r.Title
}

// Chunk is the normalized retrievable unit derived from one DocumentRecord.
type Chunk struct {
	// SearchText is the concatenation of the fields most likely to match a question.
	SearchText string
	// Title is the display title used when rendering context blocks.
	Title string
	// Content is the human-readable citation body.
	Content string
	// Domain is the tax category inferred from the record's legal basis.
	Domain DomainTag
	// Source is the original record the chunk was derived from.
	Source DocumentRecord
}

// Ref returns the citation name for the chunk: the book number prefixed to the
// title when present, otherwise the title alone.
func (c Chunk) Ref() string {
	if c.Source.BookNumber != "" {
		return c.Source.BookNumber + ": " + c.Title
	}
	return c.Title
}

// tagDomain infers the tax category of a record from its legal basis and subject.
// Rule order matters: the personal and corporate income sections are checked
// before the VAT cue because ruling texts frequently mention VAT in passing.
func tagDomain(r DocumentRecord) DomainTag {
	basis := r.LegalBasis
	switch {
	case strings.Contains(basis, "มาตรา 40"):
		return DomainPersonalIncome
	case strings.Contains(basis, "มาตรา 65"):
		return DomainCorporateIncome
	case strings.Contains(basis, "ภาษีมูลค่าเพิ่ม"), strings.Contains(r.Subject, "ภาษีมูลค่าเพิ่ม"):
		return DomainVAT
	}
	return DomainNone
}
