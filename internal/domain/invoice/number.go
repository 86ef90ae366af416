// Package invoice define el formato del número de factura: <PREFIJO>-YYYYMMDD-NNNN.
// El consecutivo se rellena a 4 dígitos y crece sin límite al superar 9999.
package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultPrefix prefijo por defecto.
const DefaultPrefix = "INV"

const dayLayout = "20060102"

// Number componentes de un número de factura.
type Number struct {
	Prefix string
	Day    time.Time
	Seq    int64
}

// String formatea el número.
func (n Number) String() string {
	return Format(n.Prefix, n.Day, n.Seq)
}

// Format construye el número para el día y consecutivo dados.
func Format(prefix string, day time.Time, seq int64) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format(dayLayout), seq)
}

// Day normaliza t al inicio del día calendario en loc (el día que aparece en la factura).
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse descompone un número de factura. El prefijo puede contener guiones.
func Parse(s string) (Number, error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 {
		return Number{}, fmt.Errorf("número de factura inválido %q", s)
	}
	j := strings.LastIndex(s[:i], "-")
	if j <= 0 {
		return Number{}, fmt.Errorf("número de factura inválido %q", s)
	}
	day, err := time.Parse(dayLayout, s[j+1:i])
	if err != nil {
		return Number{}, fmt.Errorf("fecha de factura inválida %q: %w", s, err)
	}
	seqPart := s[i+1:]
	if len(seqPart) < 4 {
		return Number{}, fmt.Errorf("consecutivo de factura inválido %q", s)
	}
	seq, err := strconv.ParseInt(seqPart, 10, 64)
	if err != nil || seq < 1 {
		return Number{}, fmt.Errorf("consecutivo de factura inválido %q", s)
	}
	return Number{Prefix: s[:j], Day: day, Seq: seq}, nil
}
