package export

import (
	"strconv"

	"shopmigrate/converter/internal/category"
	"shopmigrate/converter/internal/normalize"
)

// CategoryTable lists the taxonomy for a category import that runs before the product import
func CategoryTable(tree *category.Tree, pathSeparator string) Table {
	table := Table{Header: []string{"Name", "Slug", "Parent", "Path", "Priority"}}

	tree.Walk(func(n *category.Node) {
		parent := ""
		if n.Parent != nil {
			parent = n.Parent.Name
		}
		table.Rows = append(table.Rows, []string{
			n.Name,
			normalize.Slug(n.FullPath(" ")),
			parent,
			n.FullPath(pathSeparator),
			strconv.Itoa(n.Priority),
		})
	})

	return table
}
