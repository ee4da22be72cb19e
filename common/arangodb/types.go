package arangodb

// CollectionSpec describes a document collection and its persistent indexes.
type CollectionSpec struct {
	Name    string
	Indexes []IndexSpec
}

type IndexSpec struct {
	Fields []string
	Unique bool
	Sparse bool
}
