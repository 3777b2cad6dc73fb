package validate

import "testing"

func TestEmail(t *testing.T) {
	validos := []string{"ana@empresa.com", "a.b+c@sub.dominio.co"}
	for _, e := range validos {
		if !Email(e) {
			t.Fatalf("Email(%q) = false, se esperaba válido", e)
		}
	}
	invalidos := []string{"", "sin-arroba", "dos@@arrobas.com", "con espacios@x.com", "sinpunto@dominio"}
	for _, e := range invalidos {
		if Email(e) {
			t.Fatalf("Email(%q) = true, se esperaba inválido", e)
		}
	}
	if !EmailOpcional("") {
		t.Fatal("EmailOpcional(\"\") debe ser válido")
	}
	if EmailOpcional("malo") {
		t.Fatal("EmailOpcional con formato malo debe ser inválido")
	}
}

func TestTelefono(t *testing.T) {
	validos := []string{"3001234567", "+573001234567", "573001234567890"}
	for _, tel := range validos {
		if !Telefono(tel) {
			t.Fatalf("Telefono(%q) = false, se esperaba válido", tel)
		}
	}
	invalidos := []string{"", "123", "300-123-4567", "+57 300 1234567", "30012345678901234"}
	for _, tel := range invalidos {
		if Telefono(tel) {
			t.Fatalf("Telefono(%q) = true, se esperaba inválido", tel)
		}
	}
}

func TestEstado(t *testing.T) {
	permitidos := []string{"pendiente", "standby", "terminada"}
	if !Estado("standby", permitidos) {
		t.Fatal("standby debería estar permitido")
	}
	if Estado("Standby", permitidos) {
		t.Fatal("la comparación de estados distingue mayúsculas")
	}
	if Estado("archivada", permitidos) {
		t.Fatal("archivada no pertenece al conjunto")
	}
}

func TestStruct(t *testing.T) {
	type payload struct {
		Nombre string `validate:"required"`
		Email  string `validate:"omitempty,email"`
	}
	if errores := Struct(&payload{Nombre: "Ana"}); errores != nil {
		t.Fatalf("payload válido produjo errores: %v", errores)
	}
	errores := Struct(&payload{})
	if errores == nil {
		t.Fatal("payload sin nombre debería fallar")
	}
	if _, ok := errores["Nombre"]; !ok {
		t.Fatalf("se esperaba error sobre Nombre, se obtuvo %v", errores)
	}
}
