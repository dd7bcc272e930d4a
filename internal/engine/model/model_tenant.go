package model

// Tenant is a school or school network; every tenant-bound account belongs to one.
type Tenant struct {
	BaseModel
	TenantId string `gorm:"column:tenant_id;uniqueIndex;size:64;not null" json:"tenantId"`
	Name     string `gorm:"column:name;size:255;not null" json:"name"`
	IsActive bool   `gorm:"column:is_active;not null" json:"isActive"`
}

func (Tenant) TableName() string {
	return "t_tenant"
}
