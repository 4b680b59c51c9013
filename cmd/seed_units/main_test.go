package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseUnits_UTF8ConEncabezado(t *testing.T) {
	raw := []byte("nombre;abreviatura\nMetro;m\nGalón;gal\n;\nmetro lineal;M\n")
	units, err := parseUnits(raw)
	require.NoError(t, err)
	assert.Equal(t, []unit{{"Metro", "m"}, {"Galón", "gal"}}, units)
}

func TestParseUnits_Latin1YComa(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("Centímetro,cm\nGalón,gal\n"))
	require.NoError(t, err)

	units, err := parseUnits(raw)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Centímetro", units[0].name)
	assert.Equal(t, "Galón", units[1].name)
}

func TestParseUnits_Vacio(t *testing.T) {
	_, err := parseUnits([]byte("nombre;abreviatura\n"))
	assert.Error(t, err)
}

func TestWriteSQL(t *testing.T) {
	var b strings.Builder
	require.NoError(t, writeSQL(&b, []unit{{"Pulgada", "in"}, {"Pie d'obra", "pie"}}, "test"))
	sql := b.String()
	assert.Contains(t, sql, "(gen_random_uuid(), 'Pulgada', 'in'),\n")
	assert.Contains(t, sql, "(gen_random_uuid(), 'Pie d''obra', 'pie')\nON CONFLICT DO NOTHING;")
}
