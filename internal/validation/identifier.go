// Package validation, SQL sorgularına girecek tablo ve kolon isimlerini ve karşılaştırma
// operatörlerini doğrulayan dahili yardımcı fonksiyonları içerir.
//
// Tırnaklama (quoting) tek başına yeterli değildir: tırnak karakterini içeren bir isim,
// sarmalayıcıyı kırıp sorguya ham metin enjekte edebilir. Bu yüzden her identifier,
// dialect tarafından tırnaklanmadan önce burada doğrulanır.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package validation

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength, kabul edilen en uzun identifier uzunluğudur.
const MaxIdentifierLength = 128

// identifierRegex, tek parçalı bir identifier'ı eşler: harf veya alt çizgi ile başlar,
// harf, rakam ve alt çizgi ile devam eder.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateIdentifier, verilen tablo veya kolon adının geçerli olup olmadığını kontrol eder.
// "table.column" biçimi desteklenir; en fazla bir nokta olabilir.
func ValidateIdentifier(id string) error {
	_, _, err := SplitQualified(id)
	return err
}

// SplitQualified, "table.column" biçimindeki referansı parçalarına ayırır ve her parçayı
// doğrular. Nitelendirilmemiş isimlerde ilk dönüş değeri boştur.
func SplitQualified(ref string) (qualifier, name string, err error) {
	if ref == "" {
		return "", "", &IdentifierError{
			Identifier: ref,
			Reason:     "identifier cannot be empty",
		}
	}

	if len(ref) > MaxIdentifierLength {
		return "", "", &IdentifierError{
			Identifier: ref,
			Reason:     "identifier exceeds maximum length of 128 characters",
		}
	}

	parts := strings.Split(ref, ".")
	switch len(parts) {
	case 1:
		if err := validatePart(ref, parts[0]); err != nil {
			return "", "", err
		}
		return "", parts[0], nil
	case 2:
		if err := validatePart(ref, parts[0]); err != nil {
			return "", "", err
		}
		if err := validatePart(ref, parts[1]); err != nil {
			return "", "", err
		}
		return parts[0], parts[1], nil
	default:
		return "", "", &IdentifierError{
			Identifier: ref,
			Reason:     "identifier can have at most one dot (table.column)",
		}
	}
}

func validatePart(full, part string) error {
	if !identifierRegex.MatchString(part) {
		return &IdentifierError{
			Identifier: full,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and dots are allowed",
		}
	}
	return nil
}

// IdentifierError, identifier doğrulama hatalarını temsil eder.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "fluentdb: invalid identifier: " + e.Reason
	}
	return "fluentdb: invalid identifier '" + e.Identifier + "': " + e.Reason
}
