package tablas

import "testing"

func TestViaticosPara(t *testing.T) {
	tb := PorDefecto()

	if got := tb.ViaticosPara("Rionegro"); got != 44000 {
		t.Fatalf("viáticos de Rionegro = %d, se esperaba 44000", got)
	}
	if got := tb.ViaticosPara("  RIONEGRO  "); got != 44000 {
		t.Fatalf("viáticos con espacios y mayúsculas = %d, se esperaba 44000", got)
	}
	if got := tb.ViaticosPara("Medellín"); got != 0 {
		t.Fatalf("viáticos de Medellín = %d, se esperaba 0", got)
	}
	if got := tb.ViaticosPara("Ciudad Inexistente"); got != 0 {
		t.Fatalf("viáticos de ciudad desconocida = %d, se esperaba 0", got)
	}
}

func TestLinkFormulario(t *testing.T) {
	tb := PorDefecto()

	casos := []struct {
		tipo string
		want string
	}{
		{"Ingreso Bicicleta", tb.Formularios.BicicletaIngreso},
		{"Seguimiento Bicicletas HA", tb.Formularios.BicicletaSeguimiento},
		{"Visita de Ingreso", tb.Formularios.Ingreso},
		{"Seguimiento", tb.Formularios.Seguimiento},
		{"Atlas Especial", tb.Formularios.Atlas},
		{"PIC", tb.Formularios.PIC},
		{"Visita Virtual", tb.Formularios.Virtual},
		{"Otra cosa", tb.Formularios.General},
		{"", tb.Formularios.General},
	}
	for _, c := range casos {
		if got := tb.LinkFormulario(c.tipo); got != c.want {
			t.Fatalf("LinkFormulario(%q) = %q, se esperaba %q", c.tipo, got, c.want)
		}
	}
}

func TestContactoRegional(t *testing.T) {
	tb := PorDefecto()

	contacto, ok := tb.ContactoRegional("Antioquia")
	if !ok {
		t.Fatal("se esperaba contacto para la regional antioquia")
	}
	if contacto.Email == "" {
		t.Fatal("el contacto regional no tiene email")
	}
	if _, ok := tb.ContactoRegional("pacifico"); ok {
		t.Fatal("no debería existir contacto para una regional no configurada")
	}
}
