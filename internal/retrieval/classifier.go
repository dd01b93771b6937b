// Package retrieval ranks corpus chunks against a question and narrows the
// candidate set by a heuristic tax-domain classification of the question.
package retrieval

import (
	"strings"

	"github.com/pattarin/rdrag/internal/corpus"
)

// Rule maps lexical cues in a question to a tax domain. Cues are matched as
// case-insensitive substrings.
type Rule struct {
	Domain corpus.DomainTag
	Cues   []string
}

// DefaultRules is the ordered classification table. Earlier rules win: the VAT
// cue is checked first because VAT questions often also mention income words
// ("นำเข้า...ต้องเสียภาษีมูลค่าเพิ่มไหม"), while the personal-income cues are
// broad enough to swallow almost anything.
var DefaultRules = []Rule{
	{Domain: corpus.DomainVAT, Cues: []string{"vat", "ภาษีมูลค่าเพิ่ม"}},
	{Domain: corpus.DomainPersonalIncome, Cues: []string{"youtube", "ออนไลน์", "แพลตฟอร์ม", "เงินเดือน", "โบนัส", "เงินได้", "บุคคลธรรมดา"}},
	{Domain: corpus.DomainCorporateIncome, Cues: []string{"บริษัท", "ห้างหุ้นส่วน", "นิติบุคคล"}},
}

// Classify returns the tax domain suggested by the question text, or DomainNone
// when no rule matches. Classification is a pure function of the question and
// the rule table.
func Classify(question string) corpus.DomainTag {
	return ClassifyWith(DefaultRules, question)
}

// ClassifyWith applies an explicit ordered rule table; the first rule with a
// matching cue wins.
func ClassifyWith(rules []Rule, question string) corpus.DomainTag {
	q := strings.ToLower(question)
	for _, rule := range rules {
		for _, cue := range rule.Cues {
			if strings.Contains(q, cue) {
				return rule.Domain
			}
		}
	}
	return corpus.DomainNone
}
