// Package resource turns the things a caller wants published into logical
// paths.
package resource

// Resource is anything that yields logical paths. The set of implementations
// is closed: Path, Object and Collection.
type Resource interface {
	appendPaths(dst []string) []string
}

// Locatable is implemented by domain values that know their public URL path.
type Locatable interface {
	URL() string
}

// Path is a literal logical path.
type Path string

func (p Path) appendPaths(dst []string) []string {
	return append(dst, string(p))
}

// Paths converts literal paths into resources.
func Paths(paths ...string) []Resource {
	out := make([]Resource, len(paths))
	for i, p := range paths {
		out[i] = Path(p)
	}
	return out
}

type object struct {
	v Locatable
}

// Object wraps a single value that knows its URL.
func Object(v Locatable) Resource {
	return object{v: v}
}

func (o object) appendPaths(dst []string) []string {
	return append(dst, o.v.URL())
}

type collection[T Locatable] struct {
	items []T
}

// Collection wraps a list of values that know their URLs. Items keep their
// order.
func Collection[T Locatable](items []T) Resource {
	return collection[T]{items: items}
}

func (c collection[T]) appendPaths(dst []string) []string {
	for _, item := range c.items {
		dst = append(dst, item.URL())
	}
	return dst
}

// Extract flattens resources into paths, in order. Duplicates are kept.
func Extract(resources ...Resource) []string {
	var paths []string
	for _, r := range resources {
		if r == nil {
			continue
		}
		paths = r.appendPaths(paths)
	}
	return paths
}
