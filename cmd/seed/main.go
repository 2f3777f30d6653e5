// seed genera un script SQL para poblar lotes de hilaza a partir del export
// CSV del sistema de escritorio anterior (separado por ';', ISO-8859-1).
//
// Uso: go run ./cmd/seed <company-id> [ruta/lotes.csv]
// Por defecto busca lotes.csv en el directorio actual.
// Escribe: migrations/002_seed_lots.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type lotRow struct {
	code  string
	name  string
	stock decimal.Decimal
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed <company-id> [lotes.csv]")
		os.Exit(1)
	}
	companyID := os.Args[1]
	csvPath := "lotes.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// El export viene del sistema viejo en ISO-8859-1; los nombres de lote
	// traen tildes y eñes.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var lots []lotRow
	for i, rec := range records {
		// Primera fila: encabezado del export (codigo;nombre;existencia).
		if i == 0 || len(rec) < 3 {
			continue
		}
		code := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if code == "" || name == "" {
			continue
		}
		stock, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: existencia inválida %q, se omite\n", i+1, rec[2])
			continue
		}
		if stock.IsNegative() {
			stock = decimal.Zero
		}
		lots = append(lots, lotRow{code: code, name: name, stock: stock})
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", "002_seed_lots.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Lotes de hilaza importados del sistema anterior\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))

	for _, l := range lots {
		fmt.Fprintf(out, "INSERT INTO material_lots (id, company_id, code, name, current_stock)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid()::text, '%s', %s, '%s', %s)\n",
			escapeSQL(companyID), l.code, escapeSQL(l.name), l.stock.String())
		out.WriteString("ON CONFLICT (company_id, code) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	fmt.Printf("Generado %s: %d lotes\n", outPath, len(lots))
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
