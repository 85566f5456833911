package database

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// FoldFunc, sorgularda kullanılabilen Unicode küçük harfe çevirme fonksiyonu.
// SQLite'ın yerleşik lower() ve LIKE'ı yalnızca ASCII harfleri katlar;
// "Özge" ile "özge" eşleşmesi için fold(name) LIKE fold'lanmış pattern kullanılır.
const FoldFunc = "fold"

// Fonksiyon driver seviyesinde kaydedilir; kayıttan sonra açılan her bağlantıda geçerlidir.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction(FoldFunc, 1, foldValue)
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", FoldFunc, v)
	}
}

// Fold, arama karşılaştırmalarında kullanılan normalizasyon (Unicode lower case).
func Fold(s string) string {
	return strings.ToLower(s)
}
