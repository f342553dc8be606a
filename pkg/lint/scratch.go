package lint

// Key identifies a typed value in a [Bag]. Keys are compared by name, so each
// key should be declared once as a package-level variable.
type Key[T any] struct {
	name string
}

// NewKey creates a new [Key] with the given name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the name of the key.
func (k Key[T]) Name() string {
	return k.name
}

// Set stores v in b.
func (k Key[T]) Set(b *Bag, v T) {
	b.values[k.name] = v
}

// Get returns the value stored in b, if the producing test stored one.
func (k Key[T]) Get(b *Bag) (T, bool) {
	v, ok := b.values[k.name].(T)

	return v, ok
}

// GetOr returns the value stored in b, or fallback.
func (k Key[T]) GetOr(b *Bag, fallback T) T {
	v, ok := k.Get(b)
	if !ok {
		return fallback
	}

	return v
}

// Bag holds intermediate values passed between tests of a single subject.
// A new bag is created for every subject.
type Bag struct {
	values map[string]any
}

// NewBag creates a new, empty [Bag].
func NewBag() *Bag {
	return &Bag{values: map[string]any{}}
}

// Len returns the number of stored values.
func (b *Bag) Len() int {
	return len(b.values)
}
