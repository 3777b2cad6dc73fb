package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

func TestRelacionDeCobro(t *testing.T) {
	casos := []model.Caso{
		{Nombre: "Ana", Regional: "norte", Viaticos: 44000, GastosAdicionales: 6000},
		{Nombre: "Luis", Regional: "norte", Viaticos: 38000},
		{Nombre: "Marta", Regional: "centro", Viaticos: 12000, GastosAdicionales: 1000},
	}
	doc, err := RelacionDeCobro(casos)
	if err != nil {
		t.Fatalf("RelacionDeCobro: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(doc))
	r.FieldsPerRecord = -1
	filas, err := r.ReadAll()
	if err != nil {
		t.Fatalf("leer csv: %v", err)
	}

	// centro va primero por orden alfabético.
	if filas[0][0] != "REGIONAL: centro" {
		t.Fatalf("primera fila = %q, se esperaba el título de centro", filas[0][0])
	}
	if filas[1][0] != "CANTIDAD" || filas[1][10] != "SUBTOTAL" {
		t.Fatalf("encabezado inesperado: %v", filas[1])
	}
	if filas[2][1] != "Marta" || filas[2][10] != "13000" {
		t.Fatalf("fila de Marta inesperada: %v", filas[2])
	}
	if filas[3][0] != "SUBTOTAL:" || filas[3][10] != "13000" {
		t.Fatalf("subtotal de centro inesperado: %v", filas[3])
	}

	ultima := filas[len(filas)-1]
	if ultima[0] != "TOTAL A PAGAR:" || ultima[10] != "101000" {
		t.Fatalf("total global inesperado: %v", ultima)
	}
}

func TestRelacionDeCobroSinRegional(t *testing.T) {
	casos := []model.Caso{{Nombre: "Ana", Viaticos: 10000}}
	doc, err := RelacionDeCobro(casos)
	if err != nil {
		t.Fatalf("RelacionDeCobro: %v", err)
	}
	if !bytes.Contains(doc, []byte("REGIONAL: SIN REGIONAL")) {
		t.Fatal("los casos sin regional deben agruparse bajo SIN REGIONAL")
	}
}

func TestRelacionDeCobroVacia(t *testing.T) {
	doc, err := RelacionDeCobro(nil)
	if err != nil {
		t.Fatalf("RelacionDeCobro: %v", err)
	}
	r := csv.NewReader(bytes.NewReader(doc))
	r.FieldsPerRecord = -1
	filas, err := r.ReadAll()
	if err != nil {
		t.Fatalf("leer csv: %v", err)
	}
	if len(filas) != 1 || filas[0][0] != "TOTAL A PAGAR:" || filas[0][10] != "0" {
		t.Fatalf("documento vacío inesperado: %v", filas)
	}
}
