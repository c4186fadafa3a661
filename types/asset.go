package types

// AssetSignature describes a tradeable kind of item. Physical signatures are
// quantity-bearing stock held in an account's inventory; non-physical ones
// (claims, titles) carry no stock semantics.
type AssetSignature struct {
	Name     string
	Physical bool
}

func (s AssetSignature) String() string {
	return s.Name
}

// NewPhysicalSignature returns a signature for quantity-bearing stock.
func NewPhysicalSignature(name string) AssetSignature {
	return AssetSignature{Name: name, Physical: true}
}
