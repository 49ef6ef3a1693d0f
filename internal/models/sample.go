package models

// Sample is a simple demo record exposed through the CRUD endpoints.
type Sample struct {
	BaseModel
	Name string `gorm:"index" json:"name"`
	Age  int    `json:"age"`
}
