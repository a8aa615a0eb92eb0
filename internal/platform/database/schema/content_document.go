package schema

// ContentDocumentTable represents the 'content.document' table
type ContentDocumentTable struct {
	Table     string
	ID        string
	Type      string
	Body      string
	CreatedAt string
	UpdatedAt string
}

// ContentDocument is the schema definition for content.document
var ContentDocument = ContentDocumentTable{
	Table:     "content.document",
	ID:        "id",
	Type:      "type",
	Body:      "body",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns lists every column in SELECT order.
func (t ContentDocumentTable) Columns() []string {
	return []string{t.ID, t.Type, t.Body, t.CreatedAt, t.UpdatedAt}
}
