package models

const (
	RoleCompany  = "company"
	RoleEmployee = "employee"
)

type User struct {
	BaseUUIDModel
	Role        string  `gorm:"type:varchar(20);not null;index" json:"role"`
	Name        string  `gorm:"type:varchar(100);not null"      json:"name"`
	CompanyName *string `gorm:"type:varchar(100);index"         json:"companyName,omitempty"` // employees only: name of the employing company
	Email       string  `gorm:"type:varchar(100);uniqueIndex"   json:"email"`
	Password    string  `gorm:"type:varchar(100);not null"      json:"-"`
}

func (u *User) IsCompany() bool {
	return u.Role == RoleCompany
}

type RegisterRequest struct {
	Role        string `json:"role"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
