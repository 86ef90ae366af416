package entity

// User identidad del usuario autenticado, resuelta por el proveedor de identidad.
// El motor de ventas solo necesita su ID y el tenant al que pertenece.
type User struct {
	ID       string
	TenantID string
	Role     string // owner, staff
}
