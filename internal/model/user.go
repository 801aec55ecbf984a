package model

// User 短链归属方，凭证签发由外部认证服务负责
type User struct {
	BaseModel
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name  string `gorm:"size:255" json:"name"`
}
