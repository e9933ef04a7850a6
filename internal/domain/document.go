package domain

// Field names shared by every record collection.
const (
	FieldID           = "_id"
	FieldSiteID       = "站点id"
	FieldSiteCode     = "站点编号"
	FieldDate         = "日期"
	FieldReviewStatus = "审核状态"
	FieldName         = "名称"
)

// StatusPendingReview is the review status written on every add and edit.
const StatusPendingReview = "待审核"

// DateLayout is the YYYY-MM-DD layout used for every stored date string.
const DateLayout = "2006-01-02"

// Document is a schemaless stored record keyed by field name.
// The primary key, when present, is a string under FieldID.
// Values are whatever the store decodes: strings, numbers, bools,
// nested Documents and []any.
type Document map[string]any

// ID returns the document's primary key, or "" if it has none.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// String returns the string value of key, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Sub returns the nested document stored under key.
// ok is false when the key is absent, null, or not a document.
func (d Document) Sub(key string) (Document, bool) {
	switch v := d[key].(type) {
	case Document:
		return v, v != nil
	case map[string]any:
		return Document(v), v != nil
	default:
		return nil, false
	}
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Site identifies the service site whose records are being managed.
// It is passed explicitly to every operation that stamps or titles records.
type Site struct {
	ID   string
	Name string
	Code string
}
