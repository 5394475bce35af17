package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date fecha de calendario sin hora (emisión, vencimiento, gestión).
// Se serializa como "YYYY-MM-DD", igual que los inputs type=date del formulario.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate construye una fecha normalizada (ej. 32 de mayo → 1 de junio).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf toma el día de calendario de t en su propia zona horaria.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate interpreta "YYYY-MM-DD". También acepta RFC3339 y se queda con la fecha.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q: se espera YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// MustParseDate como ParseDate pero entra en pánico; pensado para tests y constantes.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero indica si la fecha no fue informada.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time devuelve la medianoche UTC del día.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// Display formato dd/mm/yyyy usado en tablas y PDF.
func (d Date) Display() string {
	if d.IsZero() {
		return "-"
	}
	return d.Time().Format("02/01/2006")
}

// DaysUntil días de calendario desde d hasta other (negativo si other es anterior).
func (d Date) DaysUntil(other Date) int {
	return int(other.dayNumber() - d.dayNumber())
}

// dayNumber días desde 1970-01-01; exacto porque Time() es medianoche UTC.
func (d Date) dayNumber() int64 {
	return d.Time().Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// Before indica si d es estrictamente anterior a other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// MonthKey clave "YYYY-MM" del mes al que pertenece la fecha.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
