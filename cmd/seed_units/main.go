// seed_units genera el script SQL que puebla las unidades de medida.
//
// Uso: go run ./cmd/seed_units [ruta/unidades.csv]
// El CSV tiene columnas nombre;abreviatura (también acepta coma) y puede venir en UTF-8
// o en Latin-1, como lo exporta Excel en Windows. Sin argumento usa la lista por defecto.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_units.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type unit struct {
	name, abbreviation string
}

var defaultUnits = []unit{
	{"Unidad", "und"},
	{"Kilogramo", "kg"},
	{"Gramo", "g"},
	{"Metro", "m"},
	{"Centímetro", "cm"},
	{"Litro", "L"},
	{"Galón", "gal"},
	{"Paquete", "paq"},
	{"Caja", "caja"},
	{"Bulto", "bulto"},
}

func main() {
	units := defaultUnits
	source := "lista por defecto"
	if len(os.Args) > 1 {
		raw, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
			os.Exit(1)
		}
		units, err = parseUnits(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
			os.Exit(1)
		}
		source = os.Args[1]
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_units.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, units, source); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d unidades\n", outPath, len(units))
}

// parseUnits lee nombre y abreviatura por fila. Omite el encabezado, filas vacías y
// abreviaturas repetidas (la primera gana, sin distinguir mayúsculas).
func parseUnits(raw []byte) ([]unit, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if !bytes.ContainsRune(firstLine(raw), ';') {
		cr.Comma = ','
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var units []unit
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(rec[0]), "\ufeff")
		abbr := strings.TrimSpace(rec[1])
		if name == "" || abbr == "" {
			continue
		}
		if i == 0 && strings.EqualFold(name, "nombre") {
			continue
		}
		key := strings.ToLower(abbr)
		if seen[key] {
			continue
		}
		seen[key] = true
		units = append(units, unit{name: name, abbreviation: abbr})
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("el archivo no contiene unidades")
	}
	return units, nil
}

func writeSQL(w io.Writer, units []unit, source string) error {
	var b strings.Builder
	b.WriteString("-- Unidades de medida\n")
	fmt.Fprintf(&b, "-- Generado por cmd/seed_units desde %s\n\n", source)
	b.WriteString("INSERT INTO units_of_measure (id, name, abbreviation) VALUES\n")
	for i, u := range units {
		sep := ","
		if i == len(units)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  (gen_random_uuid(), '%s', '%s')%s\n", escapeSQL(u.name), escapeSQL(u.abbreviation), sep)
	}
	b.WriteString("ON CONFLICT DO NOTHING;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func firstLine(raw []byte) []byte {
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
