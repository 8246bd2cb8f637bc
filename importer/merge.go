package importer

// changes collects the columns a merge touched.
type changes []string

func set[T comparable](c *changes, col string, dst *T, src T) {
	if *dst != src {
		*dst = src
		*c = append(*c, col)
	}
}

func setPtr[T comparable](c *changes, col string, dst **T, src *T) {
	switch {
	case *dst == nil && src == nil:
		return
	case *dst != nil && src != nil && **dst == *src:
		return
	}
	*dst = src
	*c = append(*c, col)
}
