package validation

import "strings"

// singleValueOperators, tek bir parametre alan ve "kolon OP ?" biçiminde yazılabilen
// operatörlerdir. IN, BETWEEN ve IS gibi farklı şekilli operatörler bilinçli olarak yoktur;
// onlar ham predicate metniyle yazılır.
var singleValueOperators = map[string]bool{
	"=":        true,
	"!=":       true,
	"<>":       true,
	"<":        true,
	">":        true,
	"<=":       true,
	">=":       true,
	"LIKE":     true,
	"NOT LIKE": true,
}

// NormalizeOperator, operatörü büyük harfe çevirip boşluklarını kırpar ve izin verilen
// listede olup olmadığını kontrol eder.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(op))

	if !singleValueOperators[normalized] {
		return "", &OperatorError{
			Operator: op,
			Reason:   "operator not in allowed list",
		}
	}

	return normalized, nil
}

// OperatorError, operatör doğrulama hatasını temsil eder.
type OperatorError struct {
	Operator string
	Reason   string
}

// Error, error arayüzünü uygular.
func (e *OperatorError) Error() string {
	return "fluentdb: invalid operator '" + e.Operator + "': " + e.Reason
}
