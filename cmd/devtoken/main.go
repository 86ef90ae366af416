// devtoken emite un JWT de desarrollo firmado con JWT_SECRET para probar la API sin login.
//
// Uso: go run ./cmd/devtoken -tenant <uuid> -user <uuid> -role owner|staff
// Sin -tenant usa el tenant del catálogo demo (STORE_DRIVER=memory, STORE_SEED_DEMO=true).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

func main() {
	tenant := flag.String("tenant", memory.DemoTenantID, "tenant_id del token")
	user := flag.String("user", "", "user_id del token (vacío = UUID aleatorio)")
	role := flag.String("role", jwt.RoleOwner, "owner | staff")
	exp := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *role != jwt.RoleOwner && *role != jwt.RoleStaff {
		fmt.Fprintf(os.Stderr, "Rol inválido %q (owner|staff)\n", *role)
		os.Exit(2)
	}
	if *user == "" {
		*user = uuid.NewString()
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *user, *tenant, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
