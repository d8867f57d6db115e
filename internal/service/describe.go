package service

import "github.com/stubforce/stubforce/internal/catalog"

// FieldDescribe is one field entry in a describe document.
type FieldDescribe struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	Createable bool   `json:"createable"`
	Updateable bool   `json:"updateable"`
}

// DescribeResult is the metadata document for one object. Field order is
// the backing table's column declaration order.
type DescribeResult struct {
	Name      string          `json:"name"`
	Label     string          `json:"label"`
	Queryable bool            `json:"queryable"`
	Fields    []FieldDescribe `json:"fields"`
}

// ObjectSummary is one entry in the object listing.
type ObjectSummary struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Queryable   bool   `json:"queryable"`
	Createable  bool   `json:"createable"`
	Updateable  bool   `json:"updateable"`
	FieldsCount int    `json:"fieldsCount"`
}

// ObjectList is the object listing envelope.
type ObjectList struct {
	SObjects []ObjectSummary `json:"sobjects"`
}

func describeEntry(e *catalog.Entry) DescribeResult {
	out := DescribeResult{
		Name:      e.Name,
		Label:     e.Label(),
		Queryable: true,
		Fields:    make([]FieldDescribe, 0, len(e.Fields())),
	}
	for _, f := range e.Fields() {
		out.Fields = append(out.Fields, FieldDescribe{
			Name:       f.Name,
			Label:      f.Label(),
			Type:       f.LogicalType,
			Nullable:   f.Nullable,
			Createable: f.Createable,
			Updateable: f.Updateable,
		})
	}
	return out
}
