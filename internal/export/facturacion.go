// Package export renders the billing report. The original tooling produced a
// spreadsheet; CSV keeps the same layout (rows grouped by regional with a
// SUBTOTAL line each and a global TOTAL A PAGAR) and opens in the same
// applications.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

var encabezado = []string{
	"CANTIDAD", "NOMBRE EVALUADO", "CLIENTE", "CARGO", "CIUDAD",
	"FECHA VISITA", "HORA VISITA", "NOMBRE EVALUADOR", "VIATICOS",
	"GASTOS ADICIONALES", "SUBTOTAL",
}

const sinRegional = "SIN REGIONAL"

// RelacionDeCobro builds the CSV billing report for the given casos. Each
// row's subtotal is viáticos plus additional expenses; regionals appear in
// alphabetical order for a deterministic document.
func RelacionDeCobro(casos []model.Caso) ([]byte, error) {
	porRegional := make(map[string][]model.Caso)
	for _, caso := range casos {
		region := caso.Regional
		if region == "" {
			region = sinRegional
		}
		porRegional[region] = append(porRegional[region], caso)
	}
	regiones := make([]string, 0, len(porRegional))
	for region := range porRegional {
		regiones = append(regiones, region)
	}
	sort.Strings(regiones)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	var totalGlobal int64
	for _, region := range regiones {
		if err := w.Write([]string{fmt.Sprintf("REGIONAL: %s", region)}); err != nil {
			return nil, fmt.Errorf("escribir título regional: %w", err)
		}
		if err := w.Write(encabezado); err != nil {
			return nil, fmt.Errorf("escribir encabezado: %w", err)
		}
		var subtotalRegional int64
		for _, caso := range porRegional[region] {
			subtotal := caso.Viaticos + caso.GastosAdicionales
			subtotalRegional += subtotal
			fila := []string{
				"1",
				caso.Nombre,
				caso.Cliente,
				caso.Cargo,
				caso.Ciudad,
				caso.FechaVisita,
				caso.HoraVisita,
				caso.EvaluadorAsignado,
				fmt.Sprintf("%d", caso.Viaticos),
				fmt.Sprintf("%d", caso.GastosAdicionales),
				fmt.Sprintf("%d", subtotal),
			}
			if err := w.Write(fila); err != nil {
				return nil, fmt.Errorf("escribir fila: %w", err)
			}
		}
		subtotalFila := []string{"SUBTOTAL:", "", "", "", "", "", "", "", "", "", fmt.Sprintf("%d", subtotalRegional)}
		if err := w.Write(subtotalFila); err != nil {
			return nil, fmt.Errorf("escribir subtotal: %w", err)
		}
		if err := w.Write([]string{}); err != nil {
			return nil, fmt.Errorf("escribir separador: %w", err)
		}
		totalGlobal += subtotalRegional
	}
	totalFila := []string{"TOTAL A PAGAR:", "", "", "", "", "", "", "", "", "", fmt.Sprintf("%d", totalGlobal)}
	if err := w.Write(totalFila); err != nil {
		return nil, fmt.Errorf("escribir total: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
