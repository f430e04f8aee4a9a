package entity

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleAgronomo  = "agronomo"
	RoleBodeguero = "bodeguero"
	RoleOperario  = "operario"
)

// User usuario u operario de campo (registro externo; el núcleo solo verifica existencia y estado).
type User struct {
	ID     string
	Name   string
	Role   string // admin, agronomo, bodeguero, operario
	Active bool
}
