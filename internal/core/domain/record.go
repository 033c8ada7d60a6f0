package domain

// Object is a JSON object that keeps its keys in document order so a
// rewritten record differs from the original only where URLs changed.
// Values are string, json.Number, bool, nil, []any or *Object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty ordered object
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Keys returns the keys in document order
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys
func (o *Object) Len() int {
	return len(o.keys)
}

// Get returns the raw value stored under key
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores a value, appending the key if it is new
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// StringAt returns the value under key if it is a string
func (o *Object) StringAt(key string) (string, bool) {
	s, ok := o.values[key].(string)
	return s, ok
}

// Object returns the nested object under key
func (o *Object) Object(key string) (*Object, bool) {
	child, ok := o.values[key].(*Object)
	return child, ok
}

// Array returns the array under key
func (o *Object) Array(key string) ([]any, bool) {
	arr, ok := o.values[key].([]any)
	return arr, ok
}

// Record is one structured record file
type Record struct {
	Path string
	Root *Object
}

// URLField names where in a record a URL was found
type URLField string

const (
	FieldPreviewImage URLField = "previewImage"
	FieldContentMedia URLField = "content.media"
	FieldContentImage URLField = "content.images"
	FieldProfileImage URLField = "profile.image"
)

// URLChange is one rewritten URL
type URLChange struct {
	Field  URLField
	Index  int // Position within an array field, -1 for scalar fields
	Before string
	After  string
	Width  int
}

// RecordResult describes the outcome of rewriting one record file
type RecordResult struct {
	Path             string
	Changes          []URLChange
	AlreadyOptimized int
	Modified         bool
	Err              error
}
