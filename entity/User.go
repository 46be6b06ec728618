package entity

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	Model
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"` // bcrypt hash
	Role     string `gorm:"not null;default:customer" json:"role"`
}
