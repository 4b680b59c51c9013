// token emite un JWT firmado con la configuración del servicio (JWT_SECRET, JWT_ISSUER,
// JWT_EXPIRATION_MINUTES). Los usuarios se administran fuera de este servicio.
//
// Uso: go run ./cmd/token -user <id> -username <nombre> -role admin|bodeguero|consulta [-exp minutos]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-bodegas/pkg/config"
	"github.com/jhoicas/inventario-bodegas/pkg/jwt"
)

var roles = map[string]bool{"admin": true, "bodeguero": true, "consulta": true}

func main() {
	userID := flag.String("user", "", "ID del usuario (se guarda en los movimientos)")
	username := flag.String("username", "", "nombre de usuario")
	role := flag.String("role", "consulta", "rol: admin, bodeguero o consulta")
	exp := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "falta -user")
		os.Exit(2)
	}
	if !roles[*role] {
		fmt.Fprintf(os.Stderr, "rol inválido: %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: *userID, Username: *username, Role: *role}, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
