package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalog archivo XML con los datos maestros que el núcleo consume pero no administra.
//
//	<catalogo>
//	  <lote id="lote-1" nombre="Lote Norte" area="12.5"/>
//	  <usuario id="u-1" nombre="Pedro" rol="operario"/>
//	  <receta id="r-1" nombre="Fertilización" cultivo="cafe" etapa="desarrollo">
//	    <insumo codigo="FER-UREA" dosis="25" unidad="kg/ha"/>
//	  </receta>
//	</catalogo>
type catalog struct {
	Parcels []catalogParcel `xml:"lote"`
	Users   []catalogUser   `xml:"usuario"`
	Recipes []catalogRecipe `xml:"receta"`
}

type catalogParcel struct {
	ID     string `xml:"id,attr"`
	Nombre string `xml:"nombre,attr"`
	Area   string `xml:"area,attr"`
}

type catalogUser struct {
	ID     string `xml:"id,attr"`
	Nombre string `xml:"nombre,attr"`
	Rol    string `xml:"rol,attr"`
}

type catalogRecipe struct {
	ID      string          `xml:"id,attr"`
	Nombre  string          `xml:"nombre,attr"`
	Cultivo string          `xml:"cultivo,attr"`
	Etapa   string          `xml:"etapa,attr"`
	Insumos []catalogSupply `xml:"insumo"`
}

type catalogSupply struct {
	Codigo string `xml:"codigo,attr"`
	Dosis  string `xml:"dosis,attr"`
	Unidad string `xml:"unidad,attr"`
}

var validRoles = map[string]bool{"admin": true, "agronomo": true, "bodeguero": true, "operario": true}

// decodeCatalog lee el XML (UTF-8 o ISO-8859-1) y valida áreas, dosis y roles.
func decodeCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}

	for _, p := range c.Parcels {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Nombre) == "" {
			return nil, fmt.Errorf("lote sin id o nombre")
		}
		if _, err := nonNegative(p.Area); err != nil {
			return nil, fmt.Errorf("lote %s: área %w", p.ID, err)
		}
	}
	for _, u := range c.Users {
		if !validRoles[u.Rol] {
			return nil, fmt.Errorf("usuario %s: rol inválido %q", u.ID, u.Rol)
		}
	}
	for _, r := range c.Recipes {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("receta sin id")
		}
		for _, s := range r.Insumos {
			d, err := nonNegative(s.Dosis)
			if err != nil || !d.IsPositive() {
				return nil, fmt.Errorf("receta %s, insumo %s: dosis inválida %q", r.ID, s.Codigo, s.Dosis)
			}
		}
	}
	return &c, nil
}

func nonNegative(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return d, fmt.Errorf("inválida %q", s)
	}
	if d.IsNegative() {
		return d, fmt.Errorf("negativa %q", s)
	}
	return d, nil
}

// writeCatalogSQL escribe upserts idempotentes. Los insumos de las recetas se resuelven por código
// contra inventory_items, que debe estar cargado antes de ejecutar el script.
func writeCatalogSQL(w io.Writer, c *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo agronómico: lotes, usuarios y recetas\n\n")

	parcels := append([]catalogParcel(nil), c.Parcels...)
	sort.Slice(parcels, func(i, j int) bool { return parcels[i].ID < parcels[j].ID })
	if len(parcels) > 0 {
		b.WriteString("-- 1. Lotes\n")
		b.WriteString("INSERT INTO parcels (id, name, area_ha) VALUES\n")
		for i, p := range parcels {
			area, _ := nonNegative(p.Area)
			fmt.Fprintf(&b, "  ('%s', '%s', %s)%s\n", escapeSQL(p.ID), escapeSQL(p.Nombre), area.String(), sep(i, len(parcels)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, area_ha = EXCLUDED.area_ha;\n\n")
	}

	if len(c.Users) > 0 {
		b.WriteString("-- 2. Usuarios\n")
		b.WriteString("INSERT INTO users (id, name, role) VALUES\n")
		for i, u := range c.Users {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s')%s\n", escapeSQL(u.ID), escapeSQL(u.Nombre), u.Rol, sep(i, len(c.Users)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role;\n\n")
	}

	if len(c.Recipes) > 0 {
		b.WriteString("-- 3. Recetas y dosis (insumo por código)\n")
	}
	for _, r := range c.Recipes {
		fmt.Fprintf(&b, "INSERT INTO recipes (id, crop_id, name, stage) VALUES ('%s', '%s', '%s', '%s')\n",
			escapeSQL(r.ID), escapeSQL(r.Cultivo), escapeSQL(r.Nombre), escapeSQL(r.Etapa))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET crop_id = EXCLUDED.crop_id, name = EXCLUDED.name, stage = EXCLUDED.stage;\n")
		fmt.Fprintf(&b, "DELETE FROM recipe_details WHERE recipe_id = '%s';\n", escapeSQL(r.ID))
		for i, s := range r.Insumos {
			dose, _ := nonNegative(s.Dosis)
			b.WriteString("INSERT INTO recipe_details (id, recipe_id, item_id, dose_per_area_unit, unit, sequence)\n")
			fmt.Fprintf(&b, "SELECT '%s-%d', '%s', id, %s, '%s', %d FROM inventory_items WHERE code = '%s';\n",
				escapeSQL(r.ID), i+1, escapeSQL(r.ID), dose.String(), escapeSQL(s.Unidad), i+1, escapeSQL(s.Codigo))
		}
		b.WriteString("\n")
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
	return strings.ReplaceAll(strings.TrimSpace(s), "'", "''")
}
