package domain

// Category описывает категорию верхнего уровня вместе с её подкатегориями
type Category struct {
	ID            string
	Name          string
	Slug          string
	Icon          string
	Description   string
	Order         int
	Subcategories []Subcategory
}

// Subcategory: подкатегория; ID уникален только в пределах своей категории
type Subcategory struct {
	ID   string
	Name string
	Slug string
}

// HasSubcategory сообщает, принадлежит ли подкатегория с данным ID категории.
func (c *Category) HasSubcategory(id string) bool {
	for _, s := range c.Subcategories {
		if s.ID == id {
			return true
		}
	}
	return false
}
