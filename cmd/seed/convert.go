package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// seedNamespace base de los UUID deterministas: volver a generar el script produce los mismos ids.
var seedNamespace = uuid.MustParse("5b0c7a4e-2f1d-4c55-9a53-3e1f0c2d8b61")

// Proveedor que figura en la entrada de stock inicial de cada producto.
const openingSupplier = "Reprise inventaire"

type employeeRow struct {
	ID         string
	Name       string
	Position   string
	Department string
}

type productRow struct {
	ID               string
	Name             string
	Code             string
	Type             entity.ProductType
	Category         string
	Unit             string
	MinimumThreshold int
	Quantity         int
	UnitCost         *decimal.Decimal
	Supplier         string
}

// decodeLegacy devuelve el contenido en UTF-8. Las exportaciones del tableur llegan en
// Windows-1252; si el archivo ya es UTF-8 válido se deja igual (sin BOM).
func decodeLegacy(r io.Reader) (io.Reader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder()), nil
}

// readTable lee un CSV separado por ';' con cabecera y devuelve cada fila indexada por columna.
func readTable(r io.Reader) ([]map[string]string, error) {
	in, err := decodeLegacy(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = normalizeHeader(h)
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(cols))
		empty := true
		for i, v := range rec {
			if i >= len(cols) {
				break
			}
			v = strings.TrimSpace(v)
			if v != "" {
				empty = false
			}
			row[cols[i]] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// legacyTypes nombres usados en las hojas del establecimiento.
var legacyTypes = map[string]entity.ProductType{
	"materiel":    entity.ProductTypeEquipment,
	"equipement":  entity.ProductTypeEquipment,
	"consommable": entity.ProductTypeConsumable,
}

var headerReplacer = strings.NewReplacer("é", "e", "è", "e", "ê", "e", "à", "a", "û", "u", "ô", "o", " ", "_", "-", "_")

func normalizeHeader(h string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
}

// readEmployees columnas: nom, poste, service.
func readEmployees(r io.Reader) ([]employeeRow, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	out := make([]employeeRow, 0, len(rows))
	for i, row := range rows {
		name := row["nom"]
		if name == "" {
			return nil, fmt.Errorf("empleados, línea %d: nom vacío", i+2)
		}
		out = append(out, employeeRow{
			ID:         uuid.NewSHA1(seedNamespace, []byte("employee:"+strings.ToLower(name))).String(),
			Name:       name,
			Position:   row["poste"],
			Department: row["service"],
		})
	}
	return out, nil
}

// readProducts columnas: nom, code, code_barre, type, categorie, unite, seuil, quantite, cout_unitaire, fournisseur.
// type vacío = equipment; quantite > 0 genera la entrada de stock inicial.
func readProducts(r io.Reader) ([]productRow, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	out := make([]productRow, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		p := productRow{
			Name:     row["nom"],
			Code:     row["code"],
			Category: row["categorie"],
			Unit:     row["unite"],
			Supplier: row["fournisseur"],
			Type:     entity.ProductTypeEquipment,
		}
		if p.Name == "" {
			return nil, fmt.Errorf("productos, línea %d: nom vacío", line)
		}
		if raw := row["type"]; raw != "" {
			t, ok := entity.ParseProductType(raw)
			if !ok {
				t, ok = legacyTypes[normalizeHeader(raw)]
			}
			if !ok {
				return nil, fmt.Errorf("productos, línea %d: type %q desconocido", line, raw)
			}
			p.Type = t
		}
		if p.MinimumThreshold, err = parseCount(row["seuil"]); err != nil {
			return nil, fmt.Errorf("productos, línea %d: seuil: %w", line, err)
		}
		if p.Quantity, err = parseCount(row["quantite"]); err != nil {
			return nil, fmt.Errorf("productos, línea %d: quantite: %w", line, err)
		}
		if raw := row["cout_unitaire"]; raw != "" {
			// coma decimal de las exportaciones francesas
			cost, err := decimal.NewFromString(strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), ",", "."))
			if err != nil || cost.IsNegative() {
				return nil, fmt.Errorf("productos, línea %d: cout_unitaire %q inválido", line, raw)
			}
			p.UnitCost = &cost
		}
		key := p.Code
		if key == "" {
			key = p.Name
		}
		p.ID = uuid.NewSHA1(seedNamespace, []byte("product:"+strings.ToLower(key))).String()
		out = append(out, p)
	}
	return out, nil
}

func parseCount(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}

// writeSQL escribe el script. Es idempotente: ON CONFLICT (id) DO NOTHING en todas las tablas.
func writeSQL(w io.Writer, employees []employeeRow, products []productRow) error {
	var b strings.Builder
	b.WriteString("-- Datos iniciales generados por cmd/seed a partir de las exportaciones CSV\n\n")

	if len(employees) > 0 {
		b.WriteString("-- 1. Empleados\n")
		b.WriteString("INSERT INTO employees (id, name, position, department) VALUES\n")
		for i, e := range employees {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s')%s\n",
				e.ID, escapeSQL(e.Name), escapeSQL(e.Position), escapeSQL(e.Department), sep(i, len(employees)))
		}
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")
	}

	if len(products) > 0 {
		b.WriteString("-- 2. Productos\n")
		b.WriteString("INSERT INTO products (id, name, code, product_type, category, unit, minimum_threshold) VALUES\n")
		for i, p := range products {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', '%s', %d)%s\n",
				p.ID, escapeSQL(p.Name), escapeSQL(p.Code), p.Type, escapeSQL(p.Category), escapeSQL(p.Unit),
				p.MinimumThreshold, sep(i, len(products)))
		}
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")

		b.WriteString("-- 3. Stock inicial\n")
		for _, p := range products {
			if p.Quantity == 0 {
				continue
			}
			supplier := p.Supplier
			if supplier == "" {
				supplier = openingSupplier
			}
			cost := "NULL"
			if p.UnitCost != nil {
				cost = p.UnitCost.StringFixed(2)
			}
			entryID := uuid.NewSHA1(seedNamespace, []byte("opening:"+p.ID)).String()
			fmt.Fprintf(&b, "INSERT INTO stock_entries (id, product_id, quantity, purchase_date, supplier, unit_cost)\n")
			fmt.Fprintf(&b, "VALUES ('%s', '%s', %d, now(), '%s', %s)\n", entryID, p.ID, p.Quantity, escapeSQL(supplier), cost)
			b.WriteString("ON CONFLICT (id) DO NOTHING;\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
