// Package imageset computes how a record's image list changes on update.
package imageset

// Result is the outcome of reconciling a stored image list with an update.
type Result struct {
	Images  []string
	Removed []string
	Changed bool
}

// Reconcile merges an update into stored.
//
// With kept present the new list is kept followed by uploaded. Without it,
// uploads replace the stored list, and no uploads leaves it as is. Removed is
// every stored image missing from the new list.
func Reconcile(stored []string, kept *[]string, uploaded []string) Result {
	var images []string

	switch {
	case kept != nil:
		images = make([]string, 0, len(*kept)+len(uploaded))
		images = append(images, *kept...)
		images = append(images, uploaded...)
	case len(uploaded) > 0:
		images = append([]string{}, uploaded...)
	default:
		return Result{Images: stored}
	}

	return Result{
		Images:  images,
		Removed: Difference(stored, images),
		Changed: true,
	}
}

// Difference returns the entries of a that are not in b, in order.
func Difference(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, s := range b {
		keep[s] = struct{}{}
	}

	var out []string
	for _, s := range a {
		if _, ok := keep[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// Cover keeps current when it is one of images, otherwise falls back to the
// first image, or "" when there are none.
func Cover(current string, images []string) string {
	for _, img := range images {
		if img == current && current != "" {
			return current
		}
	}

	if len(images) > 0 {
		return images[0]
	}
	return ""
}
