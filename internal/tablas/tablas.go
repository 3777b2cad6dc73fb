// Package tablas holds the lookup tables the lifecycle controller consults:
// viáticos by city, form links by visit type, the analyst roster, and the
// regional/operations contacts. These are configuration data, so they can be
// replaced wholesale from a JSON file without touching code.
package tablas

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Contacto is a notifiable person: an analyst, a regional office, or the
// operations desk.
type Contacto struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

// Tablas bundles every lookup table.
type Tablas struct {
	// Viaticos maps a lower-cased city name to the allowance in COP.
	Viaticos map[string]int64 `json:"viaticos"`
	// Formularios maps a visit-type keyword to its form link.
	Formularios Formularios `json:"formularios"`
	// Analistas receive a copy of every case-level notification.
	Analistas []Contacto `json:"analistas"`
	// Regionales routes region-specific notices.
	Regionales map[string]Contacto `json:"regionales"`
	// Operaciones is the fixed contact told to move "subida al Drive"
	// records into the external system.
	Operaciones Contacto `json:"operaciones"`
}

// Formularios holds the per-visit-type form links.
type Formularios struct {
	BicicletaIngreso     string `json:"bicicleta_ingreso"`
	BicicletaSeguimiento string `json:"bicicleta_seguimiento"`
	Ingreso              string `json:"ingreso"`
	Seguimiento          string `json:"seguimiento"`
	Atlas                string `json:"atlas"`
	PIC                  string `json:"pic"`
	Virtual              string `json:"virtual"`
	General              string `json:"general"`
}

// PorDefecto returns the compiled-in tables used when no override file is
// configured.
func PorDefecto() *Tablas {
	return &Tablas{
		Viaticos: map[string]int64{
			"rionegro":    44000,
			"la ceja":     38000,
			"marinilla":   40000,
			"guarne":      30000,
			"el retiro":   36000,
			"el carmen":   42000,
			"bello":       16000,
			"copacabana":  20000,
			"girardota":   24000,
			"barbosa":     28000,
			"itagui":      14000,
			"envigado":    12000,
			"sabaneta":    14000,
			"la estrella": 16000,
			"caldas":      18000,
		},
		Formularios: Formularios{
			BicicletaIngreso:     "https://forms.gle/visitas-bici-ingreso",
			BicicletaSeguimiento: "https://forms.gle/visitas-bici-seguimiento",
			Ingreso:              "https://forms.gle/visitas-ingreso",
			Seguimiento:          "https://forms.gle/visitas-seguimiento",
			Atlas:                "https://forms.gle/visitas-atlas",
			PIC:                  "https://forms.gle/visitas-pic",
			Virtual:              "https://forms.gle/visitas-virtual",
			General:              "https://forms.gle/visitas-general",
		},
		Analistas: []Contacto{
			{Nombre: "Analista Atlas", Email: "atlas@empresa.com", Telefono: "+573001112233"},
		},
		Regionales: map[string]Contacto{
			"antioquia": {Nombre: "Regional Antioquia", Email: "antioquia@empresa.com", Telefono: "+573004445566"},
			"centro":    {Nombre: "Regional Centro", Email: "centro@empresa.com", Telefono: "+573007778899"},
		},
		Operaciones: Contacto{Nombre: "Operaciones", Email: "operaciones@empresa.com", Telefono: "+573009990011"},
	}
}

// Cargar returns the tables from path, or the defaults when path is empty.
func Cargar(path string) (*Tablas, error) {
	if path == "" {
		return PorDefecto(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer tablas: %w", err)
	}
	t := PorDefecto()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decodificar tablas: %w", err)
	}
	return t, nil
}

// ViaticosPara resolves the travel allowance for a city. Unmatched cities
// yield zero.
func (t *Tablas) ViaticosPara(ciudad string) int64 {
	return t.Viaticos[normalizar(ciudad)]
}

// LinkFormulario resolves the form link for a visit type by keyword matching
// on the normalized string. Order matters: the bicycle variants win over the
// generic ingreso/seguimiento links.
func (t *Tablas) LinkFormulario(tipoVisita string) string {
	tipo := normalizar(tipoVisita)
	switch {
	case strings.Contains(tipo, "bicicleta") && strings.Contains(tipo, "ingreso"):
		return t.Formularios.BicicletaIngreso
	case strings.Contains(tipo, "bicicleta") && strings.Contains(tipo, "seguimiento"):
		return t.Formularios.BicicletaSeguimiento
	case strings.Contains(tipo, "ingreso"):
		return t.Formularios.Ingreso
	case strings.Contains(tipo, "seguimiento"):
		return t.Formularios.Seguimiento
	case strings.Contains(tipo, "atlas"):
		return t.Formularios.Atlas
	case strings.Contains(tipo, "pic"):
		return t.Formularios.PIC
	case strings.Contains(tipo, "virtual"):
		return t.Formularios.Virtual
	default:
		return t.Formularios.General
	}
}

// ContactoRegional returns the contact for a regional, if configured.
func (t *Tablas) ContactoRegional(regional string) (Contacto, bool) {
	c, ok := t.Regionales[normalizar(regional)]
	return c, ok
}

func normalizar(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
