package domain

type ProductType string

func (t ProductType) String() string {
	return string(t)
}

const (
	ProductTypeSimple    ProductType = "simple"    // Standalone product
	ProductTypeVariable  ProductType = "variable"  // Synthesized parent of a variant cluster
	ProductTypeVariation ProductType = "variation" // Member of a variant cluster
)

var ProductTypes = []ProductType{
	ProductTypeSimple,
	ProductTypeVariable,
	ProductTypeVariation,
}

func (t ProductType) GetTypeName() string {
	switch t {
	case ProductTypeSimple:
		return "Simple products"
	case ProductTypeVariable:
		return "Variable products"
	case ProductTypeVariation:
		return "Variations"
	default:
		return "Unknown"
	}
}

// CategorySource tells where a product's category assignment came from
type CategorySource string

func (s CategorySource) String() string {
	return string(s)
}

const (
	CategorySourceMatched  CategorySource = "matched"  // One or more taxonomy nodes matched
	CategorySourceOriginal CategorySource = "original" // Source platform category kept verbatim
	CategorySourceDefault  CategorySource = "default"  // Configured default category
)
