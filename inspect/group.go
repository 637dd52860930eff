package inspect

// Uncategorized is the category of fields without one.
const Uncategorized = "Uncategorized"

// Category is a named group of fields.
type Category struct {
	Name   string
	Fields []Field
}

// Group buckets fields by category, keeping categories in the order they
// first appear and fields in their original order within each category.
func Group(fields []Field) []Category {
	var cats []Category
	index := make(map[string]int)
	for _, f := range fields {
		name := f.Category
		if name == "" {
			name = Uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(cats)
			index[name] = i
			cats = append(cats, Category{Name: name})
		}
		cats[i].Fields = append(cats[i].Fields, f)
	}
	return cats
}
