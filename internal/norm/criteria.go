package norm

import (
	"fmt"

	"github.com/humandbs/humcat/internal/ent/record"
)

// ErrInvalidCriteria marks an access-criteria string outside the closed
// vocabulary. Coercing such a value silently could corrupt access-control
// semantics downstream, so it fails the record instead.
type ErrInvalidCriteria struct {
	Raw  string
	Lang record.Lang
}

func (e *ErrInvalidCriteria) Error() string {
	return fmt.Sprintf("access criteria %q is not in the %s vocabulary",
		e.Raw, e.Lang)
}

// The taxonomy is closed: every value the portal has ever published per
// language, mapped to its canonical form. New values require a code
// change, not a mapping-table edit.
var criteriaJa = map[string]string{
	"制限公開(Type I)":  "Controlled-access (Type I)",
	"制限公開(Type II)": "Controlled-access (Type II)",
	"非制限公開":         "Unrestricted-access",
}

var criteriaEn = map[string]string{
	"Controlled-access (Type I)":  "Controlled-access (Type I)",
	"Controlled-access (Type II)": "Controlled-access (Type II)",
	"Unrestricted-access":         "Unrestricted-access",
}

// Criteria canonicalizes an access-criteria string. The raw value is
// width-folded before lookup; an unrecognized value is a hard failure.
func Criteria(raw string, lang record.Lang) (string, error) {
	s := Fold(raw)
	var vocab map[string]string
	switch lang {
	case record.LangJa:
		vocab = criteriaJa
	case record.LangEn:
		vocab = criteriaEn
	default:
		return "", fmt.Errorf("unknown language %q", lang)
	}
	if canon, ok := vocab[s]; ok {
		return canon, nil
	}
	return "", &ErrInvalidCriteria{Raw: raw, Lang: lang}
}
